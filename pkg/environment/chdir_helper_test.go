/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

import (
	"os"
	"testing"
)

// chdirForTest changes the working directory to dir for the duration of the
// test and restores the previous one on cleanup (t.Chdir needs Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

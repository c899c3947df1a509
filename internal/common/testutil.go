package common

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// CreateTempFile returns a scratch file path under the test's temp
// directory along with a cleanup function, the same helper the teacher
// exposed from internal/utils/tests.go.
func CreateTempFile(t *testing.T) (string, func()) {
	t.Helper()
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, fmt.Sprintf("cairndb-test-%d.dat", rand.Intn(100)+10))
	return tempFile, func() {
		os.Remove(tempFile)
	}
}

package ledger

import (
	"os"
	"testing"

	"github.com/naeri/kokoto-httpd/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()
	tester.RemoveDBFile()

	os.Exit(code)
}

package tester

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/naeri/kokoto-httpd/internal/model"
)

var (
	db       *gorm.DB
	testPath string
)

func Setup() {
	RemoveDBFile()

	_ = os.Setenv("ENV", "test")

	dir, err := os.MkdirTemp("", "kokoto-test-")
	if err != nil {
		panic(err)
	}
	testPath = dir

	db, err = gorm.Open(sqlite.Open(filepath.Join(dir, "kokoto.db")), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}

	err = model.Migrate(db)
	if err != nil {
		panic(err)
	}
}

func TestDB() *gorm.DB {
	return db
}

func RemoveDBFile() {
	if testPath == "" {
		return
	}

	err := os.RemoveAll(testPath)
	if err != nil {
		panic(err)
	}
	testPath = ""
}

package testhelpers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ApplyMigrations применяет файлы .up.sql по возрастанию номера
func ApplyMigrations(db *sql.DB, migrationsPath string) error {
	return runMigrations(db, migrationsPath, ".up.sql", false)
}

// RollbackMigrations откатывает схему файлами .down.sql в обратном порядке
func RollbackMigrations(db *sql.DB, migrationsPath string) error {
	return runMigrations(db, migrationsPath, ".down.sql", true)
}

func runMigrations(db *sql.DB, migrationsPath, suffix string, reverse bool) error {
	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no %s files in %s", suffix, migrationsPath)
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	} else {
		sort.Strings(names)
	}

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(migrationsPath, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var migrationsPath, dsn string
	var down bool

	flag.StringVar(&migrationsPath, "migrations-path", "migrations", "path to migrations directory")
	flag.StringVar(&dsn, "dsn", "", "postgres dsn")
	flag.BoolVar(&down, "down", false, "migrate down instead of up")
	flag.Parse()

	if dsn == "" {
		log.Fatal("dsn is required")
	}

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		log.Fatalf("failed to init migrator: %v", err)
	}

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		log.Fatalf("migration failed: %v", err)
	}

	fmt.Println("migrations applied")
}

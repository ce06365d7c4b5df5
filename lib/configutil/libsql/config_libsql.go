package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct selects where a database lives. A Url (libsql://, https://, ws://)
// takes precedence over a local File.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) Describe() string {
	if config.Url != "" {
		return config.Url
	}
	return config.File
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return openRemote(config.Url, config.AuthToken)
	}
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}

	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if config.File != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func openRemote(rawUrl, authToken string) (*sql.DB, error) {
	if authToken != "" {
		u, err := url.Parse(rawUrl)
		if err != nil {
			return nil, err
		}
		query := u.Query()
		query.Set("authToken", authToken)
		u.RawQuery = query.Encode()
		rawUrl = u.String()
	}
	return sql.Open("libsql", rawUrl)
}

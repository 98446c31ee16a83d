package envfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/whisper-darkly/sticky-dvr/internal/confmap"
)

// Secrets carries the resolved credential material exported for docker
// compose. Values are substituted literally with no quoting or escaping, so
// they must not contain newlines; the generation schemes never produce any.
type Secrets struct {
	JWTSecret     string
	DBAdminPass   string
	DBAppPass     string
	AdminPassword string
}

// Render builds the .env content from the merged tree and resolved secrets.
// The database DSN is derived from db.user, db.host, db.port, and db.name,
// defaulting any unset path. Derivation reads the final tree only; it never
// feeds back into merging or resolution.
func Render(tree confmap.Tree, s Secrets) string {
	user := confmap.GetString(tree, "db.user", "sticky")
	host := confmap.GetString(tree, "db.host", "postgres")
	port := confmap.GetString(tree, "db.port", "5432")
	name := confmap.GetString(tree, "db.name", "sticky")

	lines := []string{
		"JWT_SECRET=" + s.JWTSecret,
		"PG_ADMIN_PASSWORD=" + s.DBAdminPass,
		fmt.Sprintf("DB_DSN=postgres://%s:%s@%s:%s/%s?sslmode=disable", user, s.DBAppPass, host, port, name),
		"ADMIN_PASSWORD=" + s.AdminPassword,
	}
	return strings.Join(lines, "\n") + "\n"
}

// Write renders the env file to path. Mode 0600; the contents are
// credential material.
func Write(path string, tree confmap.Tree, s Secrets) error {
	if err := os.WriteFile(path, []byte(Render(tree, s)), 0o600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}



package database

import (
	"testing"

	"github.com/biosmart-lab/informatics/pkg/common/config"
	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "svc",
		PostgresPassword: "secret",
		PostgresDB:       "informatics",
		PostgresSSLMode:  "require",
	}
	assert.Equal(t, "host=db user=svc password=secret dbname=informatics port=5433 sslmode=require", PostgresDSN(cfg))
}

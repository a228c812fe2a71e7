package mssql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverName(t *testing.T) {
	assert.Equal(t, "sqlserver", DriverName("sqlserver://sa:pw@localhost?database=master"))
	assert.Equal(t, "azuresql", DriverName("sqlserver://host?database=db&FedAuth=ActiveDirectoryAzCli"))
}

func TestNormalize(t *testing.T) {
	guid := []byte{0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}

	tests := []struct {
		name   string
		dbType string
		in     any
		want   any
	}{
		{name: "uniqueidentifier", dbType: "uniqueidentifier", in: guid, want: "00112233-4455-6677-8899-aabbccddeeff"},
		{name: "short guid falls back to hex", dbType: "uniqueidentifier", in: []byte{0x01, 0x02}, want: "0102"},
		{name: "decimal text", dbType: "decimal", in: []byte("12.50"), want: "12.50"},
		{name: "varbinary", dbType: "varbinary", in: []byte{0xde, 0xad}, want: "0xdead"},
		{name: "non bytes untouched", dbType: "int", in: int64(7), want: int64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.dbType, tt.in))
		})
	}
}

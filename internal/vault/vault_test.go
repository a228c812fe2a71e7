package vault

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgunnarsson/sqlpad/internal/prefs"
)

const passphrase = "/opt/sqlpad"

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	for _, plain := range [][]byte{
		{},
		[]byte("x"),
		bytes.Repeat([]byte("a"), 16),
		[]byte(`{"connectionString":"Server=db; Password=p@ss;","queryText":"SELECT 1;"}`),
	} {
		blob, err := Encrypt(plain, passphrase)
		require.NoError(t, err)

		got, err := Decrypt(blob, passphrase)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestEncrypt_FreshSaltAndIV(t *testing.T) {
	a, err := Encrypt([]byte("same"), passphrase)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same"), passphrase)
	require.NoError(t, err)

	assert.NotEqual(t, a[:SaltSize], b[:SaltSize])
	assert.NotEqual(t, a[SaltSize:headerLen], b[SaltSize:headerLen])
	assert.NotEqual(t, a, b)
}

func TestDecrypt_AnyFlippedByteFails(t *testing.T) {
	blob, err := Encrypt([]byte("SHOW DATABASES;"), passphrase)
	require.NoError(t, err)

	for i := range blob {
		bad := bytes.Clone(blob)
		bad[i] ^= 0x01

		_, err := Decrypt(bad, passphrase)
		var derr *DecryptError
		require.ErrorAs(t, err, &derr, "byte %d", i)
		assert.ErrorIs(t, err, ErrAuth, "byte %d", i)
	}
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), passphrase)
	require.NoError(t, err)

	_, err = Decrypt(blob, "/somewhere/else")
	assert.ErrorIs(t, err, ErrAuth)
}

func TestDecrypt_Short(t *testing.T) {
	_, err := Decrypt(make([]byte, headerLen), passphrase)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestPKCS7(t *testing.T) {
	padded := pkcs7Pad([]byte("abc"), 16)
	assert.Len(t, padded, 16)
	assert.Equal(t, byte(13), padded[15])

	full := pkcs7Pad(bytes.Repeat([]byte("a"), 16), 16)
	assert.Len(t, full, 32, "a whole block gains a full padding block")

	out, err := pkcs7Unpad(padded, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	_, err = pkcs7Unpad(append(bytes.Repeat([]byte("a"), 15), 0), 16)
	assert.Error(t, err)
	_, err = pkcs7Unpad(append(bytes.Repeat([]byte("a"), 14), 3, 2), 16)
	assert.Error(t, err)
}

func TestSealUnseal(t *testing.T) {
	cfg := Config{
		ConnectionString: "Server=db.internal; Port=3307; UserID=app; Password=hunter2;",
		QueryText:        "SELECT *\nFROM orders\nWHERE total > 100;",
	}

	blob, err := Seal(cfg, passphrase)
	require.NoError(t, err)
	assert.NotContains(t, blob, "hunter2")

	got, err := Unseal(blob, passphrase, Defaults())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestUnseal_KeepsFallbackForMissingFields(t *testing.T) {
	blob, err := Encrypt([]byte(`{"queryText":"SELECT 2;"}`), passphrase)
	require.NoError(t, err)

	got, err := Unseal(base64.StdEncoding.EncodeToString(blob), passphrase, Defaults())
	require.NoError(t, err)
	assert.Equal(t, Defaults().ConnectionString, got.ConnectionString)
	assert.Equal(t, "SELECT 2;", got.QueryText)
}

func TestUnseal_Failures(t *testing.T) {
	notJSON, err := Encrypt([]byte("not json"), passphrase)
	require.NoError(t, err)
	valid, err := Seal(Config{QueryText: "x"}, passphrase)
	require.NoError(t, err)

	tests := []struct {
		name   string
		stored string
		pass   string
		want   error
	}{
		{name: "not base64", stored: "%%%", pass: passphrase, want: ErrCorrupt},
		{name: "too short", stored: base64.StdEncoding.EncodeToString([]byte("abc")), pass: passphrase, want: ErrCorrupt},
		{name: "wrong passphrase", stored: valid, pass: "nope", want: ErrAuth},
		{name: "not json", stored: base64.StdEncoding.EncodeToString(notJSON), pass: passphrase, want: ErrDecode},
	}

	fallback := Defaults()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unseal(tt.stored, tt.pass, fallback)
			assert.ErrorIs(t, err, tt.want)

			var derr *DecryptError
			assert.ErrorAs(t, err, &derr)
			assert.Equal(t, fallback, got)
		})
	}
}

func TestVault_SaveLoad(t *testing.T) {
	store := prefs.NewMemoryStore()
	v := New(store, prefs.KeyFor(passphrase), passphrase, nil)

	assert.Equal(t, Defaults(), v.Load(), "nothing stored yet")

	cfg := Config{ConnectionString: "Server=a;", QueryText: "SELECT 1;"}
	blob, err := v.Save(cfg)
	require.NoError(t, err)
	assert.Equal(t, blob, store.GetString(prefs.KeyFor(passphrase), ""))
	assert.Equal(t, cfg, v.Load())

	next := Config{ConnectionString: "Server=b;", QueryText: "SELECT 2;"}
	_, err = v.Save(next)
	require.NoError(t, err)
	assert.Equal(t, next, v.Load(), "save overwrites")

	require.NoError(t, v.Clear())
	assert.Equal(t, Defaults(), v.Load())
}

func TestVault_LoadLogsAndFallsBack(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.SetString("cfg", "bm90IGEgcmVhbCBibG9i"))

	logger, hook := test.NewNullLogger()
	v := New(store, "cfg", passphrase, logger)

	assert.Equal(t, Defaults(), v.Load())

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Ignoring unreadable stored configuration", entry.Message)
	assert.Equal(t, "cfg", entry.Data["key"])

	var derr *DecryptError
	assert.True(t, errors.As(entry.Data[logrus.ErrorKey].(error), &derr))
}

type failingStore struct{ prefs.MemoryStore }

func (*failingStore) SetString(string, string) error { return errors.New("disk full") }

func TestVault_SaveStoreError(t *testing.T) {
	v := New(&failingStore{}, "cfg", passphrase, nil)
	_, err := v.Save(Defaults())
	assert.ErrorContains(t, err, "disk full")
}

func TestEncrypt_UsesRandomnessForHeader(t *testing.T) {
	header := bytes.Repeat([]byte{0x5a}, headerLen)
	prev := randReader
	t.Cleanup(func() { randReader = prev })

	randReader = bytes.NewReader(header)
	first, err := Encrypt([]byte(`{"queryText":"SELECT 1"}`), passphrase)
	require.NoError(t, err)
	assert.Equal(t, header, first[:headerLen])

	randReader = bytes.NewReader(header)
	second, err := Encrypt([]byte(`{"queryText":"SELECT 1"}`), passphrase)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same salt and iv give the same blob")

	randReader = bytes.NewReader(header[:10])
	_, err = Encrypt([]byte("x"), passphrase)
	assert.ErrorContains(t, err, "generate salt and iv")
}

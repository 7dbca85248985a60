package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/service/auth"
)

func TestRun(t *testing.T) {
	t.Parallel()

	passwords := []string{"testpassword123", "test@#$%^&*()", "тест12345"}

	var out bytes.Buffer
	require.NoError(t, run(&out, strings.NewReader(""), 4, passwords))

	hashes := strings.Fields(out.String())
	require.Len(t, hashes, len(passwords))

	hasher := auth.NewBcryptHasher(4)
	for i, hash := range hashes {
		assert.NoError(t, hasher.Compare(hash, passwords[i]))
	}
}

func TestRun_ReadsStdin(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(&out, strings.NewReader("adminpassword\n"), 4, nil))

	assert.NoError(t, auth.NewBcryptHasher(4).Compare(strings.TrimSpace(out.String()), "adminpassword"))
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	assert.Error(t, run(&out, strings.NewReader(""), 4, nil))
	assert.Error(t, run(&out, strings.NewReader(""), 4, []string{"short"}))
}

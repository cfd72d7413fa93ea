package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func TestEnsureCreatesMissingFolder(t *testing.T) {
	storage := newFakeStorage()
	m := NewFolderMaterializer(storage, PolicyFirst, testLogger())

	id, err := m.Ensure(context.Background(), "root", "Acme")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, storage.createCalls)
}

func TestEnsureIsIdempotent(t *testing.T) {
	storage := newFakeStorage()

	first := NewFolderMaterializer(storage, PolicyFirst, testLogger())
	id1, err := first.Ensure(context.Background(), "root", "Acme")
	require.NoError(t, err)

	// A fresh materializer (empty cache) must find the folder the first
	// call created instead of creating a duplicate.
	second := NewFolderMaterializer(storage, PolicyFirst, testLogger())
	id2, err := second.Ensure(context.Background(), "root", "Acme")
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, storage.createCalls)
	assert.Len(t, storage.folders["root"], 1)
}

func TestEnsureCachesLookups(t *testing.T) {
	storage := newFakeStorage()
	storage.addFolder("root", "Acme", time.Now())
	m := NewFolderMaterializer(storage, PolicyFirst, testLogger())

	for i := 0; i < 5; i++ {
		_, err := m.Ensure(context.Background(), "root", "Acme")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, storage.listFolderCalls)
}

func TestEnsureAmbiguityPolicies(t *testing.T) {
	seed := func() *fakeStorage {
		s := newFakeStorage()
		s.addFolder("root", "Acme", time.Unix(100, 0))
		s.addFolder("root", "Acme", time.Unix(200, 0))
		return s
	}

	t.Run("first", func(t *testing.T) {
		storage := seed()
		m := NewFolderMaterializer(storage, PolicyFirst, testLogger())
		id, err := m.Ensure(context.Background(), "root", "Acme")
		require.NoError(t, err)
		assert.Equal(t, storage.folders["root"][0].ID, id)
	})

	t.Run("newest", func(t *testing.T) {
		storage := seed()
		m := NewFolderMaterializer(storage, PolicyNewest, testLogger())
		id, err := m.Ensure(context.Background(), "root", "Acme")
		require.NoError(t, err)
		assert.Equal(t, storage.folders["root"][1].ID, id)
	})

	t.Run("fail", func(t *testing.T) {
		storage := seed()
		m := NewFolderMaterializer(storage, PolicyFail, testLogger())
		_, err := m.Ensure(context.Background(), "root", "Acme")
		assert.ErrorContains(t, err, "ambiguous")
	})
}

func TestEnsurePath(t *testing.T) {
	storage := newFakeStorage()
	m := NewFolderMaterializer(storage, PolicyFirst, testLogger())

	segments := []string{"EMPRESAS (IMPLEMENTACION) MANTIS WEB", "Acme", "Autorizaciones"}
	leafID, err := m.EnsurePath(context.Background(), "root", segments)
	require.NoError(t, err)

	wantLeaf, ok := storage.folderIDByPath("root", segments)
	require.True(t, ok)
	assert.Equal(t, wantLeaf, leafID)
	assert.Equal(t, 3, storage.createCalls)

	// Second pass over the same path creates nothing new.
	leafID2, err := m.EnsurePath(context.Background(), "root", segments)
	require.NoError(t, err)
	assert.Equal(t, leafID, leafID2)
	assert.Equal(t, 3, storage.createCalls)
}

func TestParseAmbiguityPolicy(t *testing.T) {
	p, err := ParseAmbiguityPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirst, p)

	p, err = ParseAmbiguityPolicy("newest")
	require.NoError(t, err)
	assert.Equal(t, PolicyNewest, p)

	p, err = ParseAmbiguityPolicy("fail")
	require.NoError(t, err)
	assert.Equal(t, PolicyFail, p)

	_, err = ParseAmbiguityPolicy("second")
	assert.Error(t, err)
}

package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

type fakeLister struct {
	doc    string
	images []models.Image
	err    error
	scans  int
}

func (l *fakeLister) DocumentID() string { return l.doc }

func (l *fakeLister) Images() ([]models.Image, error) {
	l.scans++
	return l.images, l.err
}

func sampleImages() []models.Image {
	return []models.Image{
		{Ref: "1", SheetID: 7, Alt: "bound-diagram#venn#1#7#B2:C5"},
		{Ref: "2", SheetID: 7, Alt: "Picture 2"},
		{Ref: "3", SheetID: 2, Alt: "bound-diagram#venn#2#2#A1"},
		{Ref: "4", SheetID: 2, Alt: "bound-diagram#pie#3#2#A1:B2"},
		{Ref: "5", SheetID: 2, Alt: "bound-diagram#venn#4#2#not-a-range"},
		{Ref: "6", SheetID: 2, Alt: ""},
	}
}

func TestResolveMissThenHit(t *testing.T) {
	ctx := context.Background()
	l := &fakeLister{doc: "doc", images: sampleImages()}
	x := New(NewMemoryCache(0), time.Minute, zaptest.NewLogger(t))

	expected := []models.IndexEntry{
		{Alt: "bound-diagram#venn#1#7#B2:C5", SheetID: 7, RangeExtent: models.RangeExtent{StartRow: 2, StartCol: 2, EndRow: 5, EndCol: 3}},
		{Alt: "bound-diagram#venn#2#2#A1", SheetID: 2, RangeExtent: models.RangeExtent{StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 1}},
	}

	entries, err := x.Resolve(ctx, l)
	require.NoError(t, err)
	if diff := cmp.Diff(expected, entries); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, l.scans)

	entries, err = x.Resolve(ctx, l)
	require.NoError(t, err)
	if diff := cmp.Diff(expected, entries); diff != "" {
		t.Errorf("cached Resolve() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, l.scans, "cache hit should not rescan")
}

func TestResolveAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	l := &fakeLister{doc: "doc", images: sampleImages()[:1]}
	x := New(NewMemoryCache(0), 0, nil)

	entries, err := x.Resolve(ctx, l)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	l.images = sampleImages()
	require.NoError(t, x.Invalidate(ctx, "doc"))

	entries, err = x.Resolve(ctx, l)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, l.scans)
}

func TestResolveCorruptCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(0)
	require.NoError(t, cache.Put(ctx, "doc", CacheKey, []byte("{not json"), time.Minute))

	l := &fakeLister{doc: "doc", images: sampleImages()}
	entries, err := New(cache, time.Minute, nil).Resolve(ctx, l)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, l.scans)
}

func TestResolveScanError(t *testing.T) {
	scanErr := errors.New("boom")
	l := &fakeLister{doc: "doc", err: scanErr}

	_, err := New(NewMemoryCache(0), time.Minute, nil).Resolve(context.Background(), l)
	assert.ErrorIs(t, err, scanErr)
}

func TestResolveEmptyDocumentIsCached(t *testing.T) {
	ctx := context.Background()
	l := &fakeLister{doc: "doc"}
	x := New(NewMemoryCache(0), time.Minute, nil)

	for i := 0; i < 3; i++ {
		entries, err := x.Resolve(ctx, l)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
	assert.Equal(t, 1, l.scans)
}

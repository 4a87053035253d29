package museum

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curio/pkg/models"
)

func detailStub(source string) func(context.Context, string) (models.ArtworkDetail, error) {
	return func(_ context.Context, id string) (models.ArtworkDetail, error) {
		return models.ArtworkDetail{
			Artwork: models.Artwork{
				ArtworkID: id,
				Title:     "Title of " + id,
				Artist:    "Somebody",
				Source:    source,
			},
		}, nil
	}
}

func detailFail(source string) func(context.Context, string) (models.ArtworkDetail, error) {
	return func(context.Context, string) (models.ArtworkDetail, error) {
		return models.ArtworkDetail{}, &APIError{Source: source, Err: errors.New("boom")}
	}
}

func TestResolveDispatchesBySource(t *testing.T) {
	va := &fakeSource{name: SourceVA, detailFn: detailStub(SourceVA)}
	met := &fakeSource{name: SourceMET, detailFn: detailStub(SourceMET)}
	agg := NewAggregator(va, met)

	d, err := agg.Resolve(context.Background(), models.ArtworkRef{ArtworkID: "O1", Source: SourceVA})
	require.NoError(t, err)
	assert.Equal(t, SourceVA, d.Source)
	assert.Equal(t, "Title of O1", d.Title)

	d, err = agg.Resolve(context.Background(), models.ArtworkRef{ArtworkID: "42", Source: SourceMET})
	require.NoError(t, err)
	assert.Equal(t, SourceMET, d.Source)
	assert.Equal(t, "Title of 42", d.Title)
}

func TestResolveSubstitutesDegradedRecord(t *testing.T) {
	va := &fakeSource{name: SourceVA, detailFn: detailFail(SourceVA)}
	met := &fakeSource{name: SourceMET, detailFn: detailStub(SourceMET)}
	agg := NewAggregator(va, met)

	d, err := agg.Resolve(context.Background(), models.ArtworkRef{ArtworkID: "x", Source: SourceVA})
	require.NoError(t, err)

	// identity preserved, everything else degraded
	assert.Equal(t, "x", d.ArtworkID)
	assert.Equal(t, SourceVA, d.Source)
	assert.Equal(t, "Error loading artwork", d.Title)
	assert.Equal(t, "Unknown", d.Artist)
	assert.Nil(t, d.Image)
	assert.Nil(t, d.ArtistBio)
	assert.Nil(t, d.Medium)
	assert.Nil(t, d.AccessionNumber)
	assert.Nil(t, d.Description)
	assert.Nil(t, d.DetailsURL)
	assert.Nil(t, d.Origin)
	assert.Nil(t, d.DateProduced)
}

func TestResolveUnknownSource(t *testing.T) {
	agg := NewAggregator(
		&fakeSource{name: SourceVA, detailFn: detailStub(SourceVA)},
		&fakeSource{name: SourceMET, detailFn: detailStub(SourceMET)},
	)

	_, err := agg.Resolve(context.Background(), models.ArtworkRef{ArtworkID: "x", Source: "The Louvre"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestResolveManyPreservesInputOrder(t *testing.T) {
	// earlier refs resolve slower, so completion order is the reverse of
	// input order
	slowDetail := func(_ context.Context, id string) (models.ArtworkDetail, error) {
		var delay time.Duration
		switch id {
		case "first":
			delay = 30 * time.Millisecond
		case "second":
			delay = 15 * time.Millisecond
		}
		time.Sleep(delay)
		return models.ArtworkDetail{
			Artwork: models.Artwork{ArtworkID: id, Title: id, Artist: "Somebody", Source: SourceMET},
		}, nil
	}

	agg := NewAggregator(
		&fakeSource{name: SourceVA, detailFn: detailStub(SourceVA)},
		&fakeSource{name: SourceMET, detailFn: slowDetail},
	)

	refs := []models.ArtworkRef{
		{ArtworkID: "first", Source: SourceMET},
		{ArtworkID: "second", Source: SourceMET},
		{ArtworkID: "third", Source: SourceMET},
	}

	out, err := agg.ResolveMany(context.Background(), refs)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, ref := range refs {
		assert.Equal(t, ref.ArtworkID, out[i].ArtworkID, fmt.Sprintf("position %d", i))
	}
}

func TestResolveManyMixedFailures(t *testing.T) {
	agg := NewAggregator(
		&fakeSource{name: SourceVA, detailFn: detailFail(SourceVA)},
		&fakeSource{name: SourceMET, detailFn: detailStub(SourceMET)},
	)

	out, err := agg.ResolveMany(context.Background(), []models.ArtworkRef{
		{ArtworkID: "broken", Source: SourceVA},
		{ArtworkID: "ok", Source: SourceMET},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Error loading artwork", out[0].Title)
	assert.Equal(t, "Title of ok", out[1].Title)
}

func TestResolveManyUnknownSourceFails(t *testing.T) {
	agg := NewAggregator(
		&fakeSource{name: SourceVA, detailFn: detailStub(SourceVA)},
		&fakeSource{name: SourceMET, detailFn: detailStub(SourceMET)},
	)

	_, err := agg.ResolveMany(context.Background(), []models.ArtworkRef{
		{ArtworkID: "ok", Source: SourceVA},
		{ArtworkID: "bad", Source: "scribbled-on-a-napkin"},
	})
	require.Error(t, err)
}

func TestResolveManyEmptyInput(t *testing.T) {
	agg := NewAggregator(
		&fakeSource{name: SourceVA, detailFn: detailStub(SourceVA)},
		&fakeSource{name: SourceMET, detailFn: detailStub(SourceMET)},
	)

	out, err := agg.ResolveMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

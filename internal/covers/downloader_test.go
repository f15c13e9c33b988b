package covers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semg6/personal-library/internal/catalog"
)

type fakeSource struct {
	records map[string]*catalog.VolumeRecord
	order   []string
}

func (f *fakeSource) List() ([]string, error) {
	return f.order, nil
}

func (f *fakeSource) Load(name string) (*catalog.VolumeRecord, error) {
	record, ok := f.records[name]
	if !ok {
		return nil, errors.New("unreadable")
	}
	return record, nil
}

func TestSafeTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Domain-Driven Design", "DomainDriven Design"},
		{"Clean Code: A Handbook ", "Clean Code A Handbook"},
		{"snake_case title", "snake_case title"},
		{"Ünïcode Böök", "Ünïcode Böök"},
		{"?!", DefaultTitle},
		{"", DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeTitle(tt.input))
		})
	}
}

func TestDownloader_Run(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.jpg" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("jpeg:" + r.URL.Path))
	}))
	defer server.Close()

	imagesDir := filepath.Join(t.TempDir(), "img")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "Existing.jpg"), []byte("old"), 0644))

	source := &fakeSource{
		order: []string{"1.json", "2.json", "3.json", "4.json", "5.json", "6.json"},
		records: map[string]*catalog.VolumeRecord{
			"1.json": {Title: "With Thumbnail", ImageLinks: &catalog.ImageLinks{Thumbnail: server.URL + "/t.jpg", SmallThumbnail: server.URL + "/s.jpg"}},
			"2.json": {Title: "Small Only", ImageLinks: &catalog.ImageLinks{SmallThumbnail: server.URL + "/s.jpg"}},
			"3.json": {Title: "Existing", ImageLinks: &catalog.ImageLinks{Thumbnail: server.URL + "/t.jpg"}},
			"4.json": {Title: "No Image"},
			"5.json": {Title: "Broken", ImageLinks: &catalog.ImageLinks{Thumbnail: server.URL + "/broken.jpg"}},
		},
	}

	summary, err := NewDownloader(source, imagesDir, time.Second).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"With Thumbnail.jpg", "Small Only.jpg"}, summary.Downloaded)
	assert.Equal(t, []string{"Existing.jpg"}, summary.Skipped)
	require.Len(t, summary.Failed, 3)
	assert.Equal(t, "4.json", summary.Failed[0].Record)
	assert.ErrorIs(t, summary.Failed[0].Err, errNoImageURL)
	assert.Equal(t, "5.json", summary.Failed[1].Record)
	assert.Equal(t, server.URL+"/broken.jpg", summary.Failed[1].URL)
	assert.Equal(t, "6.json", summary.Failed[2].Record)

	data, err := os.ReadFile(filepath.Join(imagesDir, "With Thumbnail.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg:/t.jpg", string(data))

	data, err = os.ReadFile(filepath.Join(imagesDir, "Small Only.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg:/s.jpg", string(data))

	data, err = os.ReadFile(filepath.Join(imagesDir, "Existing.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

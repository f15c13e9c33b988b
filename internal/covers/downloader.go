package covers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/catalog"
)

// DefaultTitle names images of records without a usable title.
const DefaultTitle = "untitled"

var errNoImageURL = errors.New("no image URL in record")

// RecordSource lists and loads stored catalog records.
type RecordSource interface {
	List() ([]string, error)
	Load(name string) (*catalog.VolumeRecord, error)
}

// Failure is a record whose image could not be saved.
type Failure struct {
	Record string
	URL    string
	Err    error
}

// Summary reports one Downloader run.
type Summary struct {
	Downloaded []string
	Skipped    []string
	Failed     []Failure
}

// Downloader saves the thumbnail of every stored record to
// {dir}/{safe title}.jpg.
type Downloader struct {
	source     RecordSource
	imagesDir  string
	httpClient *resty.Client
}

func NewDownloader(source RecordSource, imagesDir string, timeout time.Duration) *Downloader {
	return &Downloader{
		source:     source,
		imagesDir:  imagesDir,
		httpClient: newHTTPClient(timeout),
	}
}

// Run processes every record. Existing images are skipped; per-record
// failures are collected in the summary rather than stopping the run.
func (d *Downloader) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if err := os.MkdirAll(d.imagesDir, 0755); err != nil {
		return summary, fmt.Errorf("failed to create images directory: %w", err)
	}

	names, err := d.source.List()
	if err != nil {
		return summary, err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		record, err := d.source.Load(name)
		if err != nil {
			log.Error().Err(err).Str("record", name).Msg("Failed to read record")
			summary.Failed = append(summary.Failed, Failure{Record: name, Err: err})
			continue
		}

		imageName := SafeTitle(record.Title) + ".jpg"
		imagePath := filepath.Join(d.imagesDir, imageName)

		if _, err := os.Stat(imagePath); err == nil {
			log.Debug().Str("image", imageName).Msg("Skipping, already exists")
			summary.Skipped = append(summary.Skipped, imageName)
			continue
		}

		url := imageURL(record)
		if url == "" {
			log.Warn().Str("record", name).Msg("No image URL")
			summary.Failed = append(summary.Failed, Failure{Record: name, Err: errNoImageURL})
			continue
		}

		if err := download(ctx, d.httpClient, url, imagePath); err != nil {
			log.Error().Err(err).Str("record", name).Str("url", url).Msg("Failed to download image")
			summary.Failed = append(summary.Failed, Failure{Record: name, URL: url, Err: err})
			continue
		}

		log.Info().Str("image", imageName).Msg("Downloaded")
		summary.Downloaded = append(summary.Downloaded, imageName)
	}

	return summary, nil
}

func imageURL(record *catalog.VolumeRecord) string {
	if record.ImageLinks == nil {
		return ""
	}
	if record.ImageLinks.Thumbnail != "" {
		return record.ImageLinks.Thumbnail
	}
	return record.ImageLinks.SmallThumbnail
}

// SafeTitle keeps letters, digits, spaces and underscores of title and trims
// trailing spaces. Returns DefaultTitle when nothing is left.
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := strings.TrimRightFunc(b.String(), unicode.IsSpace)
	if safe == "" {
		return DefaultTitle
	}
	return safe
}

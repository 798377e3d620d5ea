package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/ytget/ytdlp/v2"
)

// DefaultTimeout bounds a single metadata lookup
const DefaultTimeout = 60 * time.Second

// ErrNoMetadata indicates the extractor ran but returned no usable info
var ErrNoMetadata = errors.New("no metadata returned")

// YTDLPExtractor resolves video titles through the yt-dlp binary
type YTDLPExtractor struct {
	executable string
	timeout    time.Duration
}

// NewYTDLPExtractor creates an extractor. An empty executable uses yt-dlp from PATH.
func NewYTDLPExtractor(executable string, timeout time.Duration) *YTDLPExtractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &YTDLPExtractor{executable: executable, timeout: timeout}
}

func (y *YTDLPExtractor) command() *goytdlp.Command {
	cmd := goytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		Quiet().
		NoWarnings()
	if y.executable != "" {
		cmd = cmd.SetExecutable(y.executable)
	}
	return cmd
}

// ExtractTitle returns the title of the video at videoURL
func (y *YTDLPExtractor) ExtractTitle(ctx context.Context, videoURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	return firstTitle(ctx, y.command().NoPlaylist(), videoURL)
}

func firstTitle(ctx context.Context, cmd *goytdlp.Command, url string) (string, error) {
	result, err := cmd.Run(ctx, url)
	if err != nil {
		return "", fmt.Errorf("yt-dlp %s: %w", url, err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		return "", fmt.Errorf("parse yt-dlp output: %w", err)
	}
	if len(info) == 0 || info[0].Title == nil {
		return "", ErrNoMetadata
	}
	return *info[0].Title, nil
}

// LibraryLister lists playlists with the ytdlp client and resolves playlist
// titles through the yt-dlp binary
type LibraryLister struct {
	extractor *YTDLPExtractor
	timeout   time.Duration
}

// NewLibraryLister creates a lister. The extractor supplies playlist titles.
func NewLibraryLister(extractor *YTDLPExtractor, timeout time.Duration) *LibraryLister {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LibraryLister{extractor: extractor, timeout: timeout}
}

// PlaylistTitle returns the playlist's own title
func (l *LibraryLister) PlaylistTitle(ctx context.Context, playlistID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	return firstTitle(ctx, l.extractor.command().FlatPlaylist(), PlaylistURL(playlistID))
}

// VideoURLs returns the watch URLs of every playlist member, in playlist order
func (l *LibraryLister) VideoURLs(ctx context.Context, playlistID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	urls := make([]string, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		urls = append(urls, WatchURL(it.VideoID))
	}
	return urls, nil
}

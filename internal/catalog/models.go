package catalog

import "time"

// Game is one catalogued Steam game together with its sync state.
type Game struct {
	AppID           int64      `json:"app_id"`
	Name            string     `json:"name"`
	PlaytimeMinutes int64      `json:"playtime_minutes"`
	ImagePath       string     `json:"image_path,omitempty"`
	ImageError      string     `json:"image_error,omitempty"`
	ImageUpdatedAt  *time.Time `json:"image_updated_at,omitempty"`
	Tags            []string   `json:"tags"`
	TagsFetched     bool       `json:"tags_fetched"`
	TagError        string     `json:"tag_error,omitempty"`
	TagsUpdatedAt   *time.Time `json:"tags_updated_at,omitempty"`
	ImportedAt      *time.Time `json:"imported_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ImageFailed reports whether the most recent cover art download failed.
func (g Game) ImageFailed() bool { return g.ImageError != "" }

// TagsFailed reports whether the most recent tag scrape failed.
func (g Game) TagsFailed() bool { return g.TagError != "" }

// Imported reports whether the game has been handed to Eagle.
func (g Game) Imported() bool { return g.ImportedAt != nil }

// Failure is one row of the failure report written after the download stage.
type Failure struct {
	AppID             int64  `json:"appid"`
	Name              string `json:"name"`
	ImgDownloadFailed bool   `json:"img_download_failed"`
	TagDownloadFailed bool   `json:"tag_download_failed"`
	ImageError        string `json:"image_error,omitempty"`
	TagError          string `json:"tag_error,omitempty"`
}

// Stats summarizes catalog state.
type Stats struct {
	Total         int `json:"total"`
	WithImage     int `json:"with_image"`
	WithTags      int `json:"with_tags"`
	ImageFailures int `json:"image_failures"`
	TagFailures   int `json:"tag_failures"`
	Imported      int `json:"imported"`
	Pending       int `json:"pending"`
}

package domain

// GenerationOptions は1回の画像生成リクエストの設定です。
// リクエスト単位で不変として扱います。
type GenerationOptions struct {
	Model          string `json:"model"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	Style          string `json:"style"`
	ResponseFormat string `json:"response_format"`
	Count          int    `json:"n"`
}

// DefaultGenerationOptions は最高品質寄りの既定設定を返します。
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Model:          "dall-e-3",
		Size:           "1024x1024",
		Quality:        "standard",
		Style:          "vivid",
		ResponseFormat: "url",
		Count:          1,
	}
}

// OptionsForQuality は品質レベル名から定番の設定を組み立てるファクトリです。
// "standard" / "high" / "fast" 以外はゼロ値と false を返します。
func OptionsForQuality(quality string) (GenerationOptions, bool) {
	switch quality {
	case "standard":
		return GenerationOptions{
			Model:          "dall-e-3",
			Size:           "1024x1024",
			Quality:        "standard",
			Style:          "natural",
			ResponseFormat: "url",
			Count:          1,
		}, true
	case "high":
		return GenerationOptions{
			Model:          "dall-e-3",
			Size:           "1024x1024",
			Quality:        "hd",
			Style:          "vivid",
			ResponseFormat: "url",
			Count:          1,
		}, true
	case "fast":
		return GenerationOptions{
			Model:          "dall-e-2",
			Size:           "512x512",
			ResponseFormat: "url",
			Count:          1,
		}, true
	}
	return GenerationOptions{}, false
}

// StoryOptions は物語モード全体の設定です。
// 画像生成用の設定は全シーンで共有されます。
type StoryOptions struct {
	StoryPrompt string
	SceneCount  int

	// 各シーンの画像生成に使う共通設定
	Model          string
	Size           string
	Quality        string
	Style          string
	ResponseFormat string

	// ナレーション（音声合成）関連
	EnableNarration bool
	Voice           string
	NarrationSpeed  float64

	// 保存関連
	AutoSave bool
	SavePath string
}

// SceneOptions は物語の共有設定から1シーン分の画像生成設定を組み立てます。
func (o StoryOptions) SceneOptions() GenerationOptions {
	opts := DefaultGenerationOptions()
	if o.Model != "" {
		opts.Model = o.Model
	}
	if o.Size != "" {
		opts.Size = o.Size
	}
	if o.Quality != "" {
		opts.Quality = o.Quality
	}
	if o.Style != "" {
		opts.Style = o.Style
	}
	if o.ResponseFormat != "" {
		opts.ResponseFormat = o.ResponseFormat
	}
	return opts
}

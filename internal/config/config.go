package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel          = "dall-e-3"
	DefaultChatModel      = "gpt-4o-mini"
	DefaultTTSModel       = "tts-1"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultSceneInterval  = 2 * time.Second // シーン間の呼び出し間隔（レート制限への配慮）
	DefaultSaveDir        = "generated_images"
	DefaultBaseURL        = "https://api.openai.com"
	DefaultSize           = "1024x1024"
	DefaultQuality        = "standard"
	DefaultStyle          = "vivid"
	DefaultVoice          = "alloy"
	DefaultNarrationSpeed = 1.0
	DefaultSceneCount     = 5
	MaxSceneCount         = 10
)

// Config はアプリケーション全体の環境設定（APIキーや接続先）を保持する構造体なのだ。
type Config struct {
	APIKey    string
	BaseURL   string
	ChatModel string
	TTSModel  string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		APIKey:    envutil.GetEnv("OPENAI_API_KEY", ""),
		BaseURL:   envutil.GetEnv("OPENAI_BASE_URL", DefaultBaseURL),
		ChatModel: envutil.GetEnv("OPENAI_CHAT_MODEL", DefaultChatModel),
		TTSModel:  envutil.GetEnv("OPENAI_TTS_MODEL", DefaultTTSModel),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 画像生成関連
	Prompt         string // image コマンドの位置引数
	Model          string // --model
	Size           string // --size
	Quality        string // --quality
	Style          string // --style
	ResponseFormat string // --response-format

	// 物語生成関連
	StoryPrompt    string  // story コマンドの位置引数
	SceneCount     int     // --scenes
	WithNarration  bool    // --narration
	Voice          string  // --voice
	NarrationSpeed float64 // --speed

	// 保存関連
	NoSave  bool   // --no-save（既定では保存するのだ）
	SaveDir string // --save-path

	// 実行制御
	APIKey      string        // --api-key（環境変数より優先）
	HTTPTimeout time.Duration // --http-timeout
	Verbose     bool          // --verbose
}

// AutoSave は保存を行うかどうかを返すのだ。保存が既定で、--no-save で止めるのだ。
func (o GenerateOptions) AutoSave() bool {
	return !o.NoSave
}

// ValidSizes は指定モデルが受け付ける画像サイズ一覧を返すのだ。
func ValidSizes(model string) []string {
	if model == "dall-e-2" {
		return []string{"256x256", "512x512", "1024x1024"}
	}
	return []string{"1024x1024", "1792x1024", "1024x1792"}
}

// ValidateOptions はモデルとサイズ・品質・スタイルの組み合わせを検証するのだ。
// dall-e-2 は quality と style に対応していないため、既定値以外は弾くのだ。
func ValidateOptions(opts GenerateOptions) error {
	if opts.Model != "dall-e-2" && opts.Model != "dall-e-3" {
		return fmt.Errorf("未対応のモデルです: %s (dall-e-2 / dall-e-3 が指定できます)", opts.Model)
	}

	if opts.Size != "" && !slices.Contains(ValidSizes(opts.Model), opts.Size) {
		return fmt.Errorf("モデル %s は サイズ %s に対応していません (対応サイズ: %v)",
			opts.Model, opts.Size, ValidSizes(opts.Model))
	}

	if opts.Model == "dall-e-2" {
		if opts.Quality != "" && opts.Quality != DefaultQuality {
			return fmt.Errorf("dall-e-2 は quality=%s に対応していません", opts.Quality)
		}
		if opts.Style != "" && opts.Style != DefaultStyle {
			return fmt.Errorf("dall-e-2 は style=%s に対応していません", opts.Style)
		}
	} else {
		if opts.Quality != "" && opts.Quality != "standard" && opts.Quality != "hd" {
			return fmt.Errorf("quality は standard か hd を指定してください: %s", opts.Quality)
		}
		if opts.Style != "" && opts.Style != "vivid" && opts.Style != "natural" {
			return fmt.Errorf("style は vivid か natural を指定してください: %s", opts.Style)
		}
	}

	if opts.ResponseFormat != "" && opts.ResponseFormat != "url" && opts.ResponseFormat != "b64_json" {
		return fmt.Errorf("response-format は url か b64_json を指定してください: %s", opts.ResponseFormat)
	}

	if opts.SceneCount < 0 || opts.SceneCount > MaxSceneCount {
		return fmt.Errorf("シーン数は 1〜%d の範囲で指定してください: %d", MaxSceneCount, opts.SceneCount)
	}

	return nil
}

package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-story-kit/pkg/domain"
	"github.com/shouni/go-story-kit/pkg/openai"
	"github.com/shouni/go-story-kit/pkg/parser"
	"github.com/shouni/go-story-kit/pkg/publisher"
)

// GenerationClient は、ランナーが必要とするAPI操作のインターフェース。
type GenerationClient interface {
	// GenerateImage はプロンプトから画像を生成し、生レスポンスを返す。
	GenerateImage(ctx context.Context, prompt string, opts domain.GenerationOptions) (*openai.ImageResponse, error)
	// DecomposeStory は物語をシーン列に分解する。
	DecomposeStory(ctx context.Context, opts domain.StoryOptions) ([]openai.RawScene, error)
	// SynthesizeNarration はシーンのナレーション音声を合成する。
	SynthesizeNarration(ctx context.Context, scene *domain.StoryScene, voice string, speed float64) ([]byte, error)
	// Download はURLから画像バイナリを取得する。
	Download(ctx context.Context, url string) ([]byte, error)
}

// StillImageRunner は、1枚の画像を生成して保存するランナーの実体。
type StillImageRunner struct {
	client GenerationClient
	parser *parser.ResponseParser
	layout *publisher.Layout
}

// NewStillImageRunner は、StillImageRunnerの新しいインスタンスを生成して返す。
func NewStillImageRunner(client GenerationClient, p *parser.ResponseParser, layout *publisher.Layout) *StillImageRunner {
	return &StillImageRunner{
		client: client,
		parser: p,
		layout: layout,
	}
}

// Run は単発の画像生成を実行するのだ。検証 → 生成 → パース → 取得 →（指定があれば）保存の順なのだ。
func (r *StillImageRunner) Run(ctx context.Context, prompt string, opts domain.GenerationOptions, autoSave bool) (*domain.GenerationResult, error) {
	result, err := r.generateOne(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	if autoSave {
		if err := publisher.SaveImage(result, r.layout.BaseDir()); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// generateOne は1枚分の生成の共通経路なのだ。物語ランナーも各シーンでこれを使うのだ。
// ネットワークに触れる前にプロンプトを検証するのがポイントなのだ。
func (r *StillImageRunner) generateOne(ctx context.Context, prompt string, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	if !domain.ValidatePrompt(prompt) {
		return nil, fmt.Errorf("プロンプトが不正です（空・長すぎ・禁止語句のいずれか）: %.50q", prompt)
	}

	slog.Info("画像を生成中...", "model", opts.Model, "size", opts.Size)
	resp, err := r.client.GenerateImage(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	result, err := r.parser.Parse(resp, prompt, opts)
	if err != nil {
		return nil, err
	}

	// レスポンス形式がURLの場合はここでダウンロードするのだ。
	// b64_json の場合はパーサーがデコード済みなので何もしないのだ。
	if !result.Downloaded() && result.RemoteURL != "" {
		payload, err := r.client.Download(ctx, result.RemoteURL)
		if err != nil {
			return nil, err
		}
		result.Payload = payload
	}

	return result, nil
}

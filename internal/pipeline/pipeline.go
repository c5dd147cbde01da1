package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-story-kit/internal/builder"
	"github.com/shouni/go-story-kit/internal/config"
	"github.com/shouni/go-story-kit/pkg/domain"
	"github.com/shouni/go-story-kit/pkg/publisher"

	"github.com/shouni/go-http-kit/httpkit"
)

// ExecuteImage は、単発のプロンプトから1枚の画像を生成するのだ。
func ExecuteImage(ctx context.Context, cfg *config.Config) (*domain.GenerationResult, error) {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return nil, err
	}

	imageRunner, err := builder.BuildImageRunner(appCtx)
	if err != nil {
		return nil, fmt.Errorf("ImageRunnerの構築に失敗したのだ: %w", err)
	}

	opts := generationOptions(cfg.Options)
	slog.Info("画像生成を開始するのだ...", "model", opts.Model, "size", opts.Size)

	result, err := imageRunner.Run(ctx, cfg.Options.Prompt, opts, cfg.Options.AutoSave())
	if err != nil {
		return nil, err
	}

	slog.Info("画像生成が完了したのだ！", "generation_id", result.GenerationID)
	return result, nil
}

// ExecuteStory は、物語の分解から全シーンの画像生成までを一括で実行するのだ。
func ExecuteStory(ctx context.Context, cfg *config.Config) (*domain.StoryResult, error) {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return nil, err
	}

	storyRunner, err := builder.BuildStoryRunner(appCtx)
	if err != nil {
		return nil, fmt.Errorf("StoryRunnerの構築に失敗したのだ: %w", err)
	}

	opts := storyOptions(cfg.Options)
	slog.Info("物語生成を開始するのだ...", "scenes", opts.SceneCount, "narration", opts.EnableNarration)

	result, err := storyRunner.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	slog.Info("物語生成が完了したのだ！",
		"completed", len(result.CompletedScenes()), "failed", len(result.FailedScenes()))
	return result, nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(cfg *config.Config) (*builder.AppContext, error) {
	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	saveDir := cfg.Options.SaveDir
	if saveDir == "" {
		saveDir = config.DefaultSaveDir
	}
	layout := publisher.NewLayout(saveDir)

	appCtx := builder.NewAppContext(cfg, httpClient, layout)
	return &appCtx, nil
}

// generationOptions はCLIフラグをドメインの生成オプションに写すのだ。
func generationOptions(opts config.GenerateOptions) domain.GenerationOptions {
	gen := domain.DefaultGenerationOptions()
	if opts.Model != "" {
		gen.Model = opts.Model
	}
	if opts.Size != "" {
		gen.Size = opts.Size
	}
	if opts.Quality != "" {
		gen.Quality = opts.Quality
	}
	if opts.Style != "" {
		gen.Style = opts.Style
	}
	if opts.ResponseFormat != "" {
		gen.ResponseFormat = opts.ResponseFormat
	}
	return gen
}

// storyOptions はCLIフラグをドメインの物語オプションに写すのだ。
func storyOptions(opts config.GenerateOptions) domain.StoryOptions {
	story := domain.StoryOptions{
		StoryPrompt:     opts.StoryPrompt,
		SceneCount:      opts.SceneCount,
		Model:           opts.Model,
		Size:            opts.Size,
		Quality:         opts.Quality,
		Style:           opts.Style,
		ResponseFormat:  opts.ResponseFormat,
		EnableNarration: opts.WithNarration,
		Voice:           opts.Voice,
		NarrationSpeed:  opts.NarrationSpeed,
		AutoSave:        opts.AutoSave(),
		SavePath:        opts.SaveDir,
	}
	if story.Voice == "" {
		story.Voice = config.DefaultVoice
	}
	if story.NarrationSpeed <= 0 {
		story.NarrationSpeed = config.DefaultNarrationSpeed
	}
	return story
}

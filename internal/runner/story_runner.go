package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-story-kit/internal/config"
	"github.com/shouni/go-story-kit/pkg/domain"
	"github.com/shouni/go-story-kit/pkg/openai"
	"github.com/shouni/go-story-kit/pkg/publisher"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// StoryRunner は、物語の分解から各シーンの画像生成・保存までを順に実行する実体。
// シーンの生成は意図的に直列で、レートリミッターで間隔を空ける。
// 途中のシーンが失敗しても処理全体は止めず、結果に失敗として残す。
type StoryRunner struct {
	still   *StillImageRunner
	client  GenerationClient
	layout  *publisher.Layout
	cache   *gocache.Cache // 同一の物語プロンプトの分解結果を使い回すためのキャッシュ
	limiter *rate.Limiter
}

// NewStoryRunner は、StoryRunnerの新しいインスタンスを生成して返す。
func NewStoryRunner(still *StillImageRunner, client GenerationClient, layout *publisher.Layout) *StoryRunner {
	return &StoryRunner{
		still:   still,
		client:  client,
		layout:  layout,
		cache:   gocache.New(30*time.Minute, 10*time.Minute),
		limiter: rate.NewLimiter(rate.Every(config.DefaultSceneInterval), 1),
	}
}

// Run は物語生成のメインロジックなのだ。
// 分解の失敗は全体の失敗、シーン生成の失敗はそのシーンだけの失敗なのだ。
func (r *StoryRunner) Run(ctx context.Context, opts domain.StoryOptions) (*domain.StoryResult, error) {
	if !domain.ValidatePrompt(opts.StoryPrompt) {
		return nil, fmt.Errorf("物語プロンプトが不正です（空・長すぎ・禁止語句のいずれか）")
	}
	if opts.SceneCount < 1 || opts.SceneCount > config.MaxSceneCount {
		return nil, fmt.Errorf("シーン数は 1〜%d の範囲で指定してください: %d", config.MaxSceneCount, opts.SceneCount)
	}

	// 分解の呼び出しも所要時間に含めるため、開始時刻はここで記録するのだ
	started := time.Now()

	scenes, err := r.decompose(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &domain.StoryResult{
		StoryPrompt: opts.StoryPrompt,
		Scenes:      scenes,
		StartedAt:   started,
	}

	// 自動保存が有効なら、先に物語ディレクトリを確保するのだ。
	// ここで失敗したら1枚も生成せずに終わるのだ（途中で保存先を失うより良いのだ）。
	var storyDir string
	if opts.AutoSave {
		storyDir, err = r.layout.AllocateStoryDir()
		if err != nil {
			return nil, err
		}
		slog.Info("物語の保存先を確保したのだ", "dir", storyDir)
	}

	sceneOpts := opts.SceneOptions()
	for _, scene := range scenes {
		// レートリミッターで前のシーンとの間隔を空けるのだ
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		slog.Info("シーンを生成中...", "scene", scene.SceneNumber, "total", len(scenes))
		genResult, err := r.still.generateOne(ctx, scene.ImagePrompt, sceneOpts)
		if err != nil {
			// キャンセルだけは伝播するのだ。それ以外は失敗シーンとして飲み込むのだ。
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("シーンの生成に失敗したのだ（続行するのだ）", "scene", scene.SceneNumber, "error", err)
			continue
		}

		if opts.AutoSave {
			if err := publisher.SaveImage(genResult, storyDir); err != nil {
				slog.Warn("シーンの保存に失敗したのだ（続行するのだ）", "scene", scene.SceneNumber, "error", err)
				continue
			}
		}
		scene.Result = genResult

		if opts.EnableNarration {
			r.narrate(ctx, scene, opts, storyDir)
		}
	}

	result.TotalSeconds = time.Since(started).Seconds()
	slog.Info("物語の生成が完了したのだ",
		"completed", len(result.CompletedScenes()), "failed", len(result.FailedScenes()),
		"success_rate", fmt.Sprintf("%.1f%%", result.SuccessRate()))
	return result, nil
}

// narrate はシーンのナレーションを合成・保存するのだ。
// ナレーションはおまけなので、失敗しても画像の成功は取り消さないのだ。
func (r *StoryRunner) narrate(ctx context.Context, scene *domain.StoryScene, opts domain.StoryOptions, storyDir string) {
	audio, err := r.client.SynthesizeNarration(ctx, scene, opts.Voice, opts.NarrationSpeed)
	if err != nil {
		slog.Warn("ナレーションの合成に失敗したのだ（続行するのだ）", "scene", scene.SceneNumber, "error", err)
		return
	}

	if opts.AutoSave && storyDir != "" {
		if err := publisher.SaveNarration(scene, audio, storyDir); err != nil {
			slog.Warn("ナレーションの保存に失敗したのだ（続行するのだ）", "scene", scene.SceneNumber, "error", err)
		}
	}
}

// decompose は物語をシーン列へ分解し、要求数に過不足があれば揃えるのだ。
func (r *StoryRunner) decompose(ctx context.Context, opts domain.StoryOptions) ([]*domain.StoryScene, error) {
	cacheKey := fmt.Sprintf("%s|%d", opts.StoryPrompt, opts.SceneCount)
	if cached, found := r.cache.Get(cacheKey); found {
		slog.Info("分解結果をキャッシュから使うのだ", "scenes", opts.SceneCount)
		return cloneScenes(cached.([]openai.RawScene)), nil
	}

	slog.Info("物語をシーンに分解中...", "scenes", opts.SceneCount)
	raw, err := r.client.DecomposeStory(ctx, opts)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.NewError(domain.ErrStoryGeneration,
			fmt.Sprintf("物語の分解に失敗しました: %v", err))
	}

	raw = reconcileScenes(raw, opts)
	r.cache.Set(cacheKey, raw, gocache.DefaultExpiration)
	return cloneScenes(raw), nil
}

// reconcileScenes はモデルが返したシーン数を要求数に揃えるのだ。
// 多すぎれば切り詰め、足りなければ埋め草シーンを補うのだ。
func reconcileScenes(raw []openai.RawScene, opts domain.StoryOptions) []openai.RawScene {
	want := opts.SceneCount
	if len(raw) > want {
		slog.Warn("シーンが多すぎるので切り詰めるのだ", "got", len(raw), "want", want)
		return raw[:want]
	}
	for len(raw) < want {
		n := len(raw) + 1
		slog.Warn("シーンが足りないので補うのだ", "scene", n, "want", want)
		raw = append(raw, openai.RawScene{
			Narrative:   fmt.Sprintf("Additional scene %d", n),
			ImagePrompt: fmt.Sprintf("Continue the story of %s, scene %d", opts.StoryPrompt, n),
		})
	}
	return raw
}

// cloneScenes は素材から番号付きのシーン列を組み立てるのだ。
// キャッシュ済み素材を共有しないよう、毎回新しいシーンを作るのだ。
func cloneScenes(raw []openai.RawScene) []*domain.StoryScene {
	scenes := make([]*domain.StoryScene, len(raw))
	for i, rs := range raw {
		scenes[i] = &domain.StoryScene{
			SceneNumber: i + 1,
			Narrative:   rs.Narrative,
			ImagePrompt: rs.ImagePrompt,
		}
	}
	return scenes
}

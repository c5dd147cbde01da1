package domain

import "time"

// StoryScene は分解された物語の1シーンです。
// Narrative は短いあらすじ、ImagePrompt は画像生成向けの詳細な描写指示です。
// Result はシーンの画像生成が成功した後に、AudioPath はナレーション保存後に
// 設定されます。Result を持たないシーンはその実行での恒久的な失敗であり、
// 自動では再試行されません。
type StoryScene struct {
	SceneNumber int               `json:"scene_number"`
	Narrative   string            `json:"narrative"`
	ImagePrompt string            `json:"image_prompt"`
	Result      *GenerationResult `json:"result,omitempty"`
	AudioPath   string            `json:"audio_path,omitempty"`
	AudioURL    string            `json:"audio_url,omitempty"`
}

// Generated はこのシーンの画像生成が成功しているかを返します。
func (s *StoryScene) Generated() bool {
	return s.Result != nil
}

// HasAudio はこのシーンにナレーション音声が付いているかを返します。
func (s *StoryScene) HasAudio() bool {
	return s.AudioPath != "" || s.AudioURL != ""
}

// StoryResult は物語生成1回分の集約結果です。
// Scenes は分解順を保持し、失敗したシーンも含めて要求シーン数ぶん入ります。
type StoryResult struct {
	StoryPrompt  string        `json:"story_prompt"`
	Scenes       []*StoryScene `json:"scenes"`
	StartedAt    time.Time     `json:"started_at"`
	TotalSeconds float64       `json:"total_seconds"`
}

// CompletedScenes は画像生成に成功したシーンの一覧を返します。
func (r *StoryResult) CompletedScenes() []*StoryScene {
	var done []*StoryScene
	for _, s := range r.Scenes {
		if s.Generated() {
			done = append(done, s)
		}
	}
	return done
}

// FailedScenes は画像生成に失敗したシーンの一覧を返します。
func (r *StoryResult) FailedScenes() []*StoryScene {
	var failed []*StoryScene
	for _, s := range r.Scenes {
		if !s.Generated() {
			failed = append(failed, s)
		}
	}
	return failed
}

// SuccessRate は成功シーンの割合（百分率）を返します。
// シーンが空の場合は 0.0 です。
func (r *StoryResult) SuccessRate() float64 {
	if len(r.Scenes) == 0 {
		return 0.0
	}
	return float64(len(r.CompletedScenes())) / float64(len(r.Scenes)) * 100
}

// ImageURLs は成功シーンの画像URLを分解順で返します。
func (r *StoryResult) ImageURLs() []string {
	var urls []string
	for _, s := range r.CompletedScenes() {
		if s.Result.RemoteURL != "" {
			urls = append(urls, s.Result.RemoteURL)
		}
	}
	return urls
}

// LocalPaths は保存済みシーンのローカルファイルパスを分解順で返します。
func (r *StoryResult) LocalPaths() []string {
	var paths []string
	for _, s := range r.CompletedScenes() {
		if s.Result.LocalPath != "" {
			paths = append(paths, s.Result.LocalPath)
		}
	}
	return paths
}

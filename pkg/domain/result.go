package domain

import "time"

// GenerationMetadata は生成済み画像に付随する情報です。生成後は不変です。
type GenerationMetadata struct {
	Prompt        string    `json:"prompt"`
	RevisedPrompt string    `json:"revised_prompt,omitempty"`
	Size          string    `json:"size"`
	Model         string    `json:"model"`
	Quality       string    `json:"quality,omitempty"`
	Style         string    `json:"style,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// GenerationResult は画像生成1回分の完全な結果です。
// RemoteURL と Payload は独立した任意項目で、URLのみ（未ダウンロード）の
// 状態も、両方を持つ状態も正当です。LocalPath は保存成功後にのみ入ります。
type GenerationResult struct {
	Prompt       string              `json:"prompt"`
	RemoteURL    string              `json:"remote_url,omitempty"`
	Payload      []byte              `json:"-"`
	Metadata     *GenerationMetadata `json:"metadata,omitempty"`
	LocalPath    string              `json:"local_path,omitempty"`
	GenerationID string              `json:"generation_id"`
	Timestamp    time.Time           `json:"timestamp"`
}

// Downloaded は画像データ本体を取得済みかを返します。
// 提供元のURLは数時間で失効するため、長期保存にはダウンロードが必要です。
func (r *GenerationResult) Downloaded() bool {
	return len(r.Payload) > 0
}

// Saved はローカルファイルへ保存済みかを返します。
func (r *GenerationResult) Saved() bool {
	return r.LocalPath != ""
}

// FileSize は取得済み画像データのバイト数を返します。未取得なら0です。
func (r *GenerationResult) FileSize() int {
	return len(r.Payload)
}

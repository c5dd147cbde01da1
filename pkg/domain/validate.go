package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxPromptLength はプロンプトの最大文字数です（提供元APIの上限に合わせています）。
const MaxPromptLength = 4000

// deniedTerms は送信前に弾く表現の固定リストです。
// 簡易的なチェックであり、最終的な判定は提供元のコンテンツポリシーが行います。
var deniedTerms = []string{"violence", "gore", "explicit"}

// ValidatePrompt は画像生成プロンプトを検証します。
// 空・空白のみ・文字数超過・禁止語を含むものは false です。
// ネットワークアクセスを伴わない純粋な関数です。
func ValidatePrompt(prompt string) bool {
	if strings.TrimSpace(prompt) == "" {
		return false
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return false
	}

	lower := strings.ToLower(prompt)
	for _, term := range deniedTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

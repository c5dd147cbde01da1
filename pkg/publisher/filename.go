// Package publisher は生成物（画像・ナレーション音声）のローカル保存と、
// 保存先ディレクトリの割り当てを担います。
package publisher

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shouni/go-story-kit/pkg/domain"
)

const maxStemLength = 50

var (
	// 文字・数字・下線・空白・ハイフン以外を取り除くためのパターンです。
	// 日本語などの非ASCIIプロンプトでも語幹が残るよう、Unicodeカテゴリで判定します。
	invalidCharsRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	// 空白とハイフンの連続をひとつのアンダースコアに畳むためのパターンです
	separatorRegex = regexp.MustCompile(`[\s-]+`)
)

// MakeFilename はプロンプトからファイルシステム安全なPNGファイル名を作ります。
// 語幹はプロンプトの小文字化・記号除去・区切りの正規化で作り、50文字
// （ルーン数）に切り詰めた後、タイムスタンプと生成IDを付けて衝突を避けます。
func MakeFilename(prompt string, generationID string, at time.Time) string {
	stem := strings.ToLower(prompt)
	stem = invalidCharsRegex.ReplaceAllString(stem, "")
	stem = separatorRegex.ReplaceAllString(stem, "_")
	if runes := []rune(stem); len(runes) > maxStemLength {
		stem = string(runes[:maxStemLength])
	}
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "image"
	}

	return fmt.Sprintf("%s_%s_%s.png", stem, at.Format("20060102_150405"), generationID)
}

// NarrationFilename はシーンのナレーション音声のファイル名を返します。
func NarrationFilename(scene *domain.StoryScene) string {
	return fmt.Sprintf("scene_%d_narration.mp3", scene.SceneNumber)
}

package publisher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shouni/go-story-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
)

func TestMakeFilename(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	t.Run("プロンプトが小文字と下線に正規化されるのだ", func(t *testing.T) {
		got := MakeFilename("A Cat, Sitting on the Moon!", "gen-abc12345", at)
		want := "a_cat_sitting_on_the_moon_20260314_150926_gen-abc12345.png"
		if got != want {
			t.Errorf("MakeFilename = %q, want %q", got, want)
		}
	})

	t.Run("長い語幹は50文字で切り詰められるのだ", func(t *testing.T) {
		long := strings.Repeat("wonderful ", 20)
		got := MakeFilename(long, "gen-abc12345", at)
		stem := strings.SplitN(got, "_2026", 2)[0]
		if len(stem) > 50 {
			t.Errorf("語幹が長すぎるのだ: %d文字 %q", len(stem), stem)
		}
		if strings.HasSuffix(stem, "_") {
			t.Errorf("切り詰め後の末尾に下線が残っているのだ: %q", stem)
		}
	})

	t.Run("記号だけのプロンプトにはフォールバック名が付くのだ", func(t *testing.T) {
		got := MakeFilename("!!!???", "gen-abc12345", at)
		if !strings.HasPrefix(got, "image_") {
			t.Errorf("MakeFilename = %q", got)
		}
	})

	t.Run("ハイフンと連続空白はひとつの下線に畳まれるのだ", func(t *testing.T) {
		got := MakeFilename("sunset  -  over   the-sea", "gen-abc12345", at)
		if !strings.HasPrefix(got, "sunset_over_the_sea_") {
			t.Errorf("MakeFilename = %q", got)
		}
	})

	t.Run("日本語のプロンプトでも語幹が残るのだ", func(t *testing.T) {
		got := MakeFilename("月の上に座る猫", "gen-abc12345", at)
		if !strings.HasPrefix(got, "月の上に座る猫_") {
			t.Errorf("MakeFilename = %q", got)
		}
	})

	t.Run("非ASCIIの語幹はルーン数で安全に切り詰めるのだ", func(t *testing.T) {
		long := strings.Repeat("ねこ", 40)
		got := MakeFilename(long, "gen-abc12345", at)
		stem := strings.TrimSuffix(got, "_20260314_150926_gen-abc12345.png")
		if n := len([]rune(stem)); n > 50 {
			t.Errorf("語幹が長すぎるのだ: %dルーン %q", n, stem)
		}
		if !utf8.ValidString(stem) {
			t.Errorf("切り詰めでルーンが壊れたのだ: %q", stem)
		}
	})
}

func TestLayoutAllocateStoryDir(t *testing.T) {
	t.Run("story_1から順に割り当てるのだ", func(t *testing.T) {
		base := t.TempDir()
		layout := NewLayout(base)

		first, err := layout.AllocateStoryDir()
		if err != nil {
			t.Fatalf("割り当てに失敗したのだ: %v", err)
		}
		second, err := layout.AllocateStoryDir()
		if err != nil {
			t.Fatalf("割り当てに失敗したのだ: %v", err)
		}

		if filepath.Base(first) != "story_1" || filepath.Base(second) != "story_2" {
			t.Errorf("割り当て = %q, %q", first, second)
		}
	})

	t.Run("既存の番号を飛ばして空きを使うのだ", func(t *testing.T) {
		base := t.TempDir()
		for _, n := range []string{"story_1", "story_2", "story_5"} {
			if err := os.Mkdir(filepath.Join(base, n), 0o755); err != nil {
				t.Fatal(err)
			}
		}

		layout := NewLayout(base)
		got, err := layout.AllocateStoryDir()
		if err != nil {
			t.Fatalf("割り当てに失敗したのだ: %v", err)
		}
		if filepath.Base(got) != "story_3" {
			t.Errorf("割り当て = %q, want story_3", got)
		}
	})

	t.Run("並行に呼んでも重複しないのだ", func(t *testing.T) {
		base := t.TempDir()
		layout := NewLayout(base)

		const workers = 8
		dirs := make([]string, workers)
		var g errgroup.Group
		for i := 0; i < workers; i++ {
			i := i
			g.Go(func() error {
				dir, err := layout.AllocateStoryDir()
				dirs[i] = dir
				return err
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("割り当てに失敗したのだ: %v", err)
		}

		seen := make(map[string]bool, workers)
		for _, dir := range dirs {
			if seen[dir] {
				t.Errorf("重複した割り当てがあるのだ: %q", dir)
			}
			seen[dir] = true
		}
	})
}

func TestSaveImage(t *testing.T) {
	t.Run("ペイロードを書き出してLocalPathを更新するのだ", func(t *testing.T) {
		dir := t.TempDir()
		result := &domain.GenerationResult{
			Prompt:       "a cat",
			Payload:      []byte{0x89, 'P', 'N', 'G'},
			GenerationID: "gen-abc12345",
			Timestamp:    time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		}

		if err := SaveImage(result, dir); err != nil {
			t.Fatalf("SaveImage がエラーを返したのだ: %v", err)
		}
		if !result.Saved() {
			t.Fatal("LocalPath が設定されているはずなのだ")
		}
		data, err := os.ReadFile(result.LocalPath)
		if err != nil {
			t.Fatalf("保存ファイルを読めないのだ: %v", err)
		}
		if string(data) != string(result.Payload) {
			t.Errorf("保存内容が一致しないのだ: %v", data)
		}
	})

	t.Run("ペイロードがなければ保存エラーなのだ", func(t *testing.T) {
		result := &domain.GenerationResult{Prompt: "a cat"}
		err := SaveImage(result, t.TempDir())
		if err == nil {
			t.Fatal("エラーが返るはずなのだ")
		}
		if domErr, ok := domain.AsError(err); !ok || domErr.Code != domain.ErrSave {
			t.Errorf("err = %v", err)
		}
	})
}

func TestSaveNarration(t *testing.T) {
	t.Run("シーン番号入りのファイル名で保存されるのだ", func(t *testing.T) {
		dir := t.TempDir()
		scene := &domain.StoryScene{SceneNumber: 3, Narrative: "the fox rests"}

		if err := SaveNarration(scene, []byte("mp3"), dir); err != nil {
			t.Fatalf("SaveNarration がエラーを返したのだ: %v", err)
		}
		if filepath.Base(scene.AudioPath) != "scene_3_narration.mp3" {
			t.Errorf("AudioPath = %q", scene.AudioPath)
		}
		if !scene.HasAudio() {
			t.Error("HasAudio が真のはずなのだ")
		}
	})

	t.Run("空の音声データは保存エラーなのだ", func(t *testing.T) {
		scene := &domain.StoryScene{SceneNumber: 1}
		if err := SaveNarration(scene, nil, t.TempDir()); err == nil {
			t.Fatal("エラーが返るはずなのだ")
		}
	})
}

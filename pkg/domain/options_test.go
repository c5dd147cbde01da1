package domain

import "testing"

func TestOptionsForQuality(t *testing.T) {
	t.Run("highはdall-e-3のhd品質なのだ", func(t *testing.T) {
		opts, ok := OptionsForQuality("high")
		if !ok {
			t.Fatal("high プリセットが見つからないのだ")
		}
		if opts.Model != "dall-e-3" || opts.Quality != "hd" {
			t.Errorf("opts = %+v", opts)
		}
	})

	t.Run("fastはdall-e-2の小さいサイズなのだ", func(t *testing.T) {
		opts, ok := OptionsForQuality("fast")
		if !ok {
			t.Fatal("fast プリセットが見つからないのだ")
		}
		if opts.Model != "dall-e-2" || opts.Size != "512x512" {
			t.Errorf("opts = %+v", opts)
		}
	})

	t.Run("未知のプリセット名はfalseなのだ", func(t *testing.T) {
		if _, ok := OptionsForQuality("ultra"); ok {
			t.Error("未知のプリセットが通ってしまったのだ")
		}
	})
}

func TestStoryOptions_SceneOptions(t *testing.T) {
	t.Run("未指定の項目は既定値で埋まるのだ", func(t *testing.T) {
		story := StoryOptions{StoryPrompt: "p", SceneCount: 3, Quality: "hd"}
		opts := story.SceneOptions()
		if opts.Quality != "hd" {
			t.Errorf("Quality = %q", opts.Quality)
		}
		if opts.Model != "dall-e-3" || opts.Size != "1024x1024" || opts.ResponseFormat != "url" {
			t.Errorf("既定値が効いていないのだ: %+v", opts)
		}
	})
}

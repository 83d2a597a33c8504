package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBareCommands(t *testing.T) {
	cases := map[string]Kind{
		"/start":         KindStart,
		"/info":          KindInfo,
		"/status":        KindStatus,
		"/language":      KindLanguageInfo,
		"/get":           KindGetInfo,
		"/nsfw":          KindNsfwStatus,
		"/random_reddit": KindRandomReddit,
		"/random":        KindRandomBooru,
		"/random_booru":  KindRandomBooru,
		"/STATUS":        KindStatus,
		"owo":            KindEcho,
		"uwu":            KindEcho,
		"/frobnicate":    KindUnknown,
		"hello there":    KindNone,
		"":               KindNone,
	}

	for text, want := range cases {
		cmd := Classify(text, "owobot")
		assert.Equal(t, want, cmd.Kind, "text %q", text)
		assert.False(t, cmd.Mentioned, "text %q", text)
	}
}

func TestClassifyArguments(t *testing.T) {
	cmd := Classify("/get_aww", "owobot")
	assert.Equal(t, KindGetSub, cmd.Kind)
	assert.Equal(t, "aww", cmd.Arg)

	cmd = Classify("/get EarthPorn", "owobot")
	assert.Equal(t, KindGetSub, cmd.Kind)
	assert.Equal(t, "earthporn", cmd.Arg)

	cmd = Classify("/language ru", "owobot")
	assert.Equal(t, KindSetLanguage, cmd.Kind)
	assert.Equal(t, "ru", cmd.Arg)

	cmd = Classify("/language ru-RU", "owobot")
	assert.Equal(t, KindSetLanguage, cmd.Kind)
	assert.Equal(t, "ru", cmd.Arg)

	cmd = Classify("/nsfw on", "owobot")
	assert.Equal(t, KindSetNsfw, cmd.Kind)
	assert.Equal(t, "on", cmd.Arg)

	cmd = Classify("/nsfw maybe", "owobot")
	assert.Equal(t, KindSetNsfw, cmd.Kind)
	assert.Equal(t, "maybe", cmd.Arg)
}

func TestClassifyMentions(t *testing.T) {
	cmd := Classify("/status@owobot", "owobot")
	assert.Equal(t, KindStatus, cmd.Kind)
	assert.True(t, cmd.Mentioned)

	cmd = Classify("/nsfw@OwOBot on", "owobot")
	assert.Equal(t, KindSetNsfw, cmd.Kind)
	assert.Equal(t, "on", cmd.Arg)
	assert.True(t, cmd.Mentioned)

	cmd = Classify("/status@someotherbot", "owobot")
	assert.Equal(t, KindStatus, cmd.Kind)
	assert.False(t, cmd.Mentioned)
}

func TestEchoSwapsTheWord(t *testing.T) {
	cmd := Classify("owo", "owobot")
	assert.Equal(t, KindEcho, cmd.Kind)
	assert.Equal(t, "uwu", cmd.Arg)

	cmd = Classify("uwu", "owobot")
	assert.Equal(t, KindEcho, cmd.Kind)
	assert.Equal(t, "owo", cmd.Arg)
}

func TestGetArgumentTakesWholeRemainder(t *testing.T) {
	cmd := Classify("/get_aww extra words", "owobot")
	assert.Equal(t, KindGetSub, cmd.Kind)
	assert.Equal(t, "aww extra words", cmd.Arg)
}

func TestGatedKinds(t *testing.T) {
	assert.True(t, Classify("/status", "owobot").Gated())
	assert.True(t, Classify("/random_reddit", "owobot").Gated())
	assert.False(t, Classify("/random", "owobot").Gated())
	assert.False(t, Classify("/random_booru", "owobot").Gated())
	assert.False(t, Classify("/get_aww", "owobot").Gated())
	assert.False(t, Classify("/nsfw on", "owobot").Gated())
}

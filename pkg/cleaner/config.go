package cleaner

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects which cleaning steps run. Every remove/replace pair is
// exclusive: remove wins when both are enabled.
type Config struct {
	RemoveEmojis     bool   `yaml:"remove_emojis" json:"remove_emojis"`
	ReplaceEmojis    bool   `yaml:"replace_emojis" json:"replace_emojis"`
	EmojiReplacement string `yaml:"emoji_replacement" json:"emoji_replacement"`

	RemoveURLs     bool   `yaml:"remove_urls" json:"remove_urls"`
	ReplaceURLs    bool   `yaml:"replace_urls" json:"replace_urls"`
	URLReplacement string `yaml:"url_replacement" json:"url_replacement"`

	RemoveMentionsAndHashtags bool   `yaml:"remove_mentions_and_hashtags" json:"remove_mentions_and_hashtags"`
	ReplaceMentions           bool   `yaml:"replace_mentions" json:"replace_mentions"`
	ReplaceHashtags           bool   `yaml:"replace_hashtags" json:"replace_hashtags"`
	MentionReplacement        string `yaml:"mention_replacement" json:"mention_replacement"`
	HashtagReplacement        string `yaml:"hashtag_replacement" json:"hashtag_replacement"`

	RemoveNumbers     bool   `yaml:"remove_numbers" json:"remove_numbers"`
	ReplaceNumbers    bool   `yaml:"replace_numbers" json:"replace_numbers"`
	NumberReplacement string `yaml:"number_replacement" json:"number_replacement"`

	RemoveSpecialCharacters     bool   `yaml:"remove_special_characters" json:"remove_special_characters"`
	ReplaceSpecialCharacters    bool   `yaml:"replace_special_characters" json:"replace_special_characters"`
	SpecialCharacterReplacement string `yaml:"special_character_replacement" json:"special_character_replacement"`

	RemoveAccents   bool   `yaml:"remove_accents" json:"remove_accents"`
	RemoveStopwords bool   `yaml:"remove_stopwords" json:"remove_stopwords"`
	Lemmatize       bool   `yaml:"lemmatize" json:"lemmatize"`
	Language        string `yaml:"language" json:"language"`
	ReturnTokens    bool   `yaml:"return_tokens" json:"return_tokens"`
}

// DefaultLanguage is used when no language, or an unsupported one, is configured.
const DefaultLanguage = "english"

// DefaultConfig returns a configuration with every step disabled.
func DefaultConfig() Config {
	return Config{
		EmojiReplacement:            "EMOJI",
		URLReplacement:              "URL",
		MentionReplacement:          "MENTION",
		HashtagReplacement:          "HASHTAG",
		NumberReplacement:           "NUMBER",
		SpecialCharacterReplacement: " ",
		Language:                    DefaultLanguage,
	}
}

// LoadConfig reads a YAML or JSON config file and overlays it on the defaults.
// A missing or unparsable file is logged and yields the defaults.
func LoadConfig(path string, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return DefaultConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("config loading error, using defaults", "path", path, "error", err)
		return DefaultConfig()
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		logger.Warn("config loading error, using defaults", "path", path, "error", fmt.Errorf("parse: %w", err))
		return DefaultConfig()
	}
	return FromMap(raw)
}

// FromMap overlays raw key/values on the defaults. Values of the wrong type
// and unsupported languages are ignored. Unknown keys are ignored.
func FromMap(raw map[string]any) Config {
	cfg := DefaultConfig()

	bools := map[string]*bool{
		"remove_emojis":                &cfg.RemoveEmojis,
		"replace_emojis":               &cfg.ReplaceEmojis,
		"remove_urls":                  &cfg.RemoveURLs,
		"replace_urls":                 &cfg.ReplaceURLs,
		"remove_mentions_and_hashtags": &cfg.RemoveMentionsAndHashtags,
		"replace_mentions":             &cfg.ReplaceMentions,
		"replace_hashtags":             &cfg.ReplaceHashtags,
		"remove_numbers":               &cfg.RemoveNumbers,
		"replace_numbers":              &cfg.ReplaceNumbers,
		"remove_special_characters":    &cfg.RemoveSpecialCharacters,
		"replace_special_characters":   &cfg.ReplaceSpecialCharacters,
		"remove_accents":               &cfg.RemoveAccents,
		"remove_stopwords":             &cfg.RemoveStopwords,
		"lemmatize":                    &cfg.Lemmatize,
		"return_tokens":                &cfg.ReturnTokens,
	}
	strs := map[string]*string{
		"emoji_replacement":             &cfg.EmojiReplacement,
		"url_replacement":               &cfg.URLReplacement,
		"mention_replacement":           &cfg.MentionReplacement,
		"hashtag_replacement":           &cfg.HashtagReplacement,
		"number_replacement":            &cfg.NumberReplacement,
		"special_character_replacement": &cfg.SpecialCharacterReplacement,
	}

	for key, v := range raw {
		if dst, ok := bools[key]; ok {
			if b, ok := v.(bool); ok {
				*dst = b
			}
			continue
		}
		if dst, ok := strs[key]; ok {
			if s, ok := v.(string); ok {
				*dst = s
			}
			continue
		}
		if key == "language" {
			if s, ok := v.(string); ok && SupportedLanguage(s) {
				cfg.Language = s
			}
		}
	}
	return cfg
}

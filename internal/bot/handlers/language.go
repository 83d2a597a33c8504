package handlers

import "context"

// supportedLanguages maps the short codes users type to stored locale tags.
var supportedLanguages = map[string]string{
	"en": "en-US",
	"ru": "ru-RU",
}

const languageUnsupportedMsg = "This language is not supported yet."

// LanguageInfo shows the current language and how to switch it.
func (s *Set) LanguageInfo(ctx context.Context, req *Request) error {
	return s.reply(ctx, req, "LanguageInfo", req.Locale())
}

// SetLanguage switches the user's reply language and confirms in the new
// language. Unsupported codes get a plain refusal and no mutation.
func (s *Set) SetLanguage(ctx context.Context, req *Request) error {
	locale, ok := supportedLanguages[req.Arg]
	if !ok || !s.deps.Catalog.Has(locale) {
		return s.deps.Client.SendText(ctx, req.Msg.ChatID, languageUnsupportedMsg)
	}

	if err := s.deps.Users.SetLanguage(ctx, req.User.ID, locale); err != nil {
		return err
	}

	req.User.Language = locale

	return s.reply(ctx, req, "SetLanguage")
}

//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SettingsBuilder helps create prepared settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	serverURL   string
	callbackURL string
	secret      string
	navigators  []entities.Navigator
	owners      []entities.SourceOwner
}

// NewSettingsBuilder creates a new settings builder with sensible defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		serverURL:   "https://gitea.example.com",
		callbackURL: "https://ci.example.com/",
	}
}

// WithCallbackURL sets the callback root URL.
func (b *SettingsBuilder) WithCallbackURL(callbackURL string) *SettingsBuilder {
	b.callbackURL = callbackURL
	return b
}

// WithWebhookSecret sets the webhook secret.
func (b *SettingsBuilder) WithWebhookSecret(secret string) *SettingsBuilder {
	b.secret = secret
	return b
}

// WithNavigator adds a navigator.
func (b *SettingsBuilder) WithNavigator(navigator entities.Navigator) *SettingsBuilder {
	b.navigators = append(b.navigators, navigator)
	return b
}

// WithOwner adds a source owner.
func (b *SettingsBuilder) WithOwner(owner entities.SourceOwner) *SettingsBuilder {
	b.owners = append(b.owners, owner)
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with defaults applied and filters compiled.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	settings := &entities.Settings{
		ServerURL:     b.serverURL,
		CallbackURL:   b.callbackURL,
		WebhookSecret: b.secret,
		Credentials: map[string]entities.Credentials{
			"bot": {Username: "ci-bot", Password: "token"},
		},
		Navigators: append([]entities.Navigator(nil), b.navigators...),
		Owners:     append([]entities.SourceOwner(nil), b.owners...),
	}
	if err := settings.Prepare(); err != nil {
		panic(err)
	}
	return settings
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.serverURL = "https://gitea.example.com"
	b.callbackURL = "https://ci.example.com/"
	b.secret = ""
	b.navigators = nil
	b.owners = nil
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		serverURL:   b.serverURL,
		callbackURL: b.callbackURL,
		secret:      b.secret,
		navigators:  append([]entities.Navigator(nil), b.navigators...),
		owners:      append([]entities.SourceOwner(nil), b.owners...),
	}
}

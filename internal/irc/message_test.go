package irc

import (
	"errors"
	"testing"
)

func TestParsePrivmsg(t *testing.T) {
	m := Parse(":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Kappa Keepo Kappa")
	if m.Err != nil {
		t.Fatalf("unexpected parse error: %v", m.Err)
	}
	if m.Host != HostTMI {
		t.Errorf("Host = %q, want %q", m.Host, HostTMI)
	}
	if m.MetaHost != "ronni" {
		t.Errorf("MetaHost = %q, want %q", m.MetaHost, "ronni")
	}
	if m.Tag != "PRIVMSG" {
		t.Errorf("Tag = %q, want PRIVMSG", m.Tag)
	}
	if m.Channel != "dallas" {
		t.Errorf("Channel = %q, want dallas", m.Channel)
	}
	if m.Message != "Kappa Keepo Kappa" {
		t.Errorf("Message = %q, want %q", m.Message, "Kappa Keepo Kappa")
	}
}

func TestParsePing(t *testing.T) {
	m := Parse("PING :tmi.twitch.tv")
	if m.Err != nil {
		t.Fatalf("unexpected parse error: %v", m.Err)
	}
	if m.Tag != "PING" {
		t.Errorf("Tag = %q, want PING", m.Tag)
	}
	if m.Host != HostTMI {
		t.Errorf("Host = %q, want %q", m.Host, HostTMI)
	}
	// Short-circuit: nothing else parsed
	if m.Channel != "" || m.Message != "" || m.User != "" {
		t.Errorf("expected no further fields, got %+v", m)
	}
}

func TestParseJoin(t *testing.T) {
	m := Parse(":ronni!ronni@ronni.tmi.twitch.tv JOIN #dallas")
	if m.Tag != "JOIN" {
		t.Errorf("Tag = %q, want JOIN", m.Tag)
	}
	if m.Channel != "dallas" {
		t.Errorf("Channel = %q, want dallas", m.Channel)
	}
	if m.MetaHost != "ronni" {
		t.Errorf("MetaHost = %q, want ronni", m.MetaHost)
	}
}

func TestParseNumericReply(t *testing.T) {
	m := Parse(":tmi.twitch.tv 001 ronni :Welcome, GLHF!")
	if m.Status != "001" {
		t.Errorf("Status = %q, want 001", m.Status)
	}
	if m.User != "ronni" {
		t.Errorf("User = %q, want ronni", m.User)
	}
	if m.Message != "Welcome, GLHF!" {
		t.Errorf("Message = %q, want %q", m.Message, "Welcome, GLHF!")
	}
	if m.MetaHost != "" {
		t.Errorf("MetaHost = %q, want empty", m.MetaHost)
	}
}

func TestParseMetaSegment(t *testing.T) {
	m := Parse("@badges=moderator/1 :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :hi")
	if m.Meta != "@badges=moderator/1 " {
		t.Errorf("Meta = %q, want the leading tag segment", m.Meta)
	}
	if m.MetaHost != "ronni" {
		t.Errorf("MetaHost = %q, want ronni", m.MetaHost)
	}
	if m.Message != "hi" {
		t.Errorf("Message = %q, want hi", m.Message)
	}
}

func TestParseLegacyMode(t *testing.T) {
	m := Parse(":jtv MODE #dallas +o ronni")
	if m.Err != nil {
		t.Fatalf("unexpected parse error: %v", m.Err)
	}
	if m.Host != HostJTV {
		t.Errorf("Host = %q, want jtv", m.Host)
	}
	if m.Tag != "MODE" {
		t.Errorf("Tag = %q, want MODE", m.Tag)
	}
	if m.Channel != "dallas" {
		t.Errorf("Channel = %q, want dallas", m.Channel)
	}
	if m.JTVAction != "+o" {
		t.Errorf("JTVAction = %q, want +o", m.JTVAction)
	}
	if m.User != "ronni" {
		t.Errorf("User = %q, want ronni", m.User)
	}
}

func TestParseLegacyShortLine(t *testing.T) {
	// Fewer than five tokens leaves the tail fields empty, not an error.
	m := Parse(":jtv MODE #dallas")
	if m.Err != nil {
		t.Fatalf("unexpected parse error: %v", m.Err)
	}
	if m.Channel != "dallas" {
		t.Errorf("Channel = %q, want dallas", m.Channel)
	}
	if m.JTVAction != "" || m.User != "" {
		t.Errorf("expected empty tail fields, got %+v", m)
	}
}

func TestParseUnknownDialect(t *testing.T) {
	raw := ":irc.example.org 001 nick :Welcome"
	m := Parse(raw)
	if m.Err == nil {
		t.Fatal("expected parse error for foreign line")
	}
	if !errors.Is(m.Err, ErrUnknownDialect) {
		t.Errorf("Err = %v, want ErrUnknownDialect", m.Err)
	}
	if m.Raw != raw {
		t.Errorf("Raw = %q, want original line retained", m.Raw)
	}
	if m.Host != "" || m.Tag != "" || m.Channel != "" {
		t.Errorf("expected semantic fields absent, got %+v", m)
	}
}

func TestChatReduction(t *testing.T) {
	m := Parse(":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Kappa")
	if !m.IsChat() {
		t.Fatal("expected chat message")
	}
	chat := m.Chat()
	if chat.Channel != "dallas" || chat.User != "ronni" || chat.Text != "Kappa" {
		t.Errorf("Chat() = %+v", chat)
	}

	if Parse(":ronni!ronni@ronni.tmi.twitch.tv JOIN #dallas").IsChat() {
		t.Error("JOIN should not reduce to chat")
	}
}

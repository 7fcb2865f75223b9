package irc

import (
	"reflect"
	"testing"
)

func TestFramerSingleChunk(t *testing.T) {
	var f LineFramer
	lines := f.Feed([]byte("PING :tmi.twitch.tv\r\n"))
	want := []string{"PING :tmi.twitch.tv"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Feed() = %v, want %v", lines, want)
	}
	if f.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.Pending())
	}
}

func TestFramerMultipleLinesOneChunk(t *testing.T) {
	var f LineFramer
	lines := f.Feed([]byte("one\r\ntwo\r\nthree\r\n"))
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Feed() = %v, want %v", lines, want)
	}
}

func TestFramerCarriesPartialLine(t *testing.T) {
	var f LineFramer
	if lines := f.Feed([]byte("PING :tmi.")); len(lines) != 0 {
		t.Fatalf("expected no complete lines, got %v", lines)
	}
	if f.Pending() == 0 {
		t.Fatal("expected buffered partial line")
	}
	lines := f.Feed([]byte("twitch.tv\r\n"))
	want := []string{"PING :tmi.twitch.tv"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Feed() = %v, want %v", lines, want)
	}
}

func TestFramerSplitMidDelimiter(t *testing.T) {
	var f LineFramer
	if lines := f.Feed([]byte("hello\r")); len(lines) != 0 {
		t.Fatalf("expected no complete lines, got %v", lines)
	}
	lines := f.Feed([]byte("\nworld\r\n"))
	want := []string{"hello", "world"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Feed() = %v, want %v", lines, want)
	}
}

// Any split of the stream into chunks must yield the same lines in the
// same order.
func TestFramerArbitrarySplits(t *testing.T) {
	stream := ":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Kappa\r\n" +
		":jtv MODE #dallas +o ronni\r\n" +
		"PING :tmi.twitch.tv\r\n"
	want := []string{
		":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :Kappa",
		":jtv MODE #dallas +o ronni",
		"PING :tmi.twitch.tv",
	}

	for chunkSize := 1; chunkSize <= len(stream); chunkSize++ {
		var f LineFramer
		var got []string
		for i := 0; i < len(stream); i += chunkSize {
			end := i + chunkSize
			if end > len(stream) {
				end = len(stream)
			}
			got = append(got, f.Feed([]byte(stream[i:end]))...)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("chunk size %d: got %v, want %v", chunkSize, got, want)
		}
		if f.Pending() != 0 {
			t.Fatalf("chunk size %d: %d bytes left pending", chunkSize, f.Pending())
		}
	}
}

func TestFramerEmptyLines(t *testing.T) {
	var f LineFramer
	lines := f.Feed([]byte("\r\n\r\na\r\n"))
	want := []string{"", "", "a"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Feed() = %v, want %v", lines, want)
	}
}

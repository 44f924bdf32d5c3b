package main

import (
	"strings"
	"testing"
)

func TestScrapeCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints admitted links", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		page := env.writeFile(t, "index.html", testPage)
		out, err := env.run(t, "", "scrape", "--url", "http://www.ics.uci.edu/", "--file", page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "http://www.ics.uci.edu/people\n" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("prints rejected links with their rule", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		page := env.writeFile(t, "index.html", testPage)
		out, err := env.run(t, "", "scrape", "--url", "http://www.ics.uci.edu/", "--file", page, "--rejected")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "http://www.ics.uci.edu/people\n" +
			"REJECT domain http://example.com/\n" +
			"REJECT extension http://www.ics.uci.edu/paper.pdf\n"
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("reads the body from standard input", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		out, err := env.run(t, testPage, "scrape", "-u", "http://www.ics.uci.edu/", "-f", "-", "--words")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(out, "http://www.ics.uci.edu/people\n") {
			t.Errorf("expected link first, got %q", out)
		}
		if !strings.Contains(out, "Word Count: ") || !strings.Contains(out, "computer: 1") {
			t.Errorf("expected word summary, got %q", out)
		}
	})

	t.Run("failed fetch yields no links", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		page := env.writeFile(t, "index.html", testPage)
		out, err := env.run(t, "", "scrape", "--url", "http://www.ics.uci.edu/", "--file", page, "--status", "404")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected no output, got %q", out)
		}
	})

	t.Run("requires url and file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		page := env.writeFile(t, "index.html", testPage)
		if _, err := env.run(t, "", "scrape", "--file", page); err == nil {
			t.Error("expected error without --url")
		}
		if _, err := env.run(t, "", "scrape", "--url", "http://www.ics.uci.edu/"); err == nil {
			t.Error("expected error without --file")
		}
		if _, err := env.run(t, "", "scrape", "--url", "http://www.ics.uci.edu/", "--file", page+".missing"); err == nil {
			t.Error("expected error for a missing file")
		}
	})
}

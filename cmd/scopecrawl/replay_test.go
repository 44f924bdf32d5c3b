package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// importPages stores the test pages in the environment's database.
func importPages(t *testing.T, env testEnv) {
	t.Helper()

	page := env.writeFile(t, "index.html", testPage)
	if _, err := env.run(t, "", "import", "--url", "http://www.ics.uci.edu/", "--content-type", "text/html", page); err != nil {
		t.Fatalf("failed to import page: %v", err)
	}
	if _, err := env.run(t, "", "import", "--url", "http://www.ics.uci.edu/#top", page); err != nil {
		t.Fatalf("failed to import page: %v", err)
	}
	if _, err := env.run(t, "", "import", "--url", "http://www.ics.uci.edu/gone", "--status", "404"); err != nil {
		t.Fatalf("failed to import page: %v", err)
	}
}

// runID extracts the run ID from the replay summary line.
func runID(t *testing.T, out string) string {
	t.Helper()

	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "Run "); ok {
			id, _, _ = strings.Cut(id, ":")
			return id
		}
	}
	t.Fatalf("no run line in output %q", out)
	return ""
}

func TestImportCmd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	page := env.writeFile(t, "index.html", testPage)
	out, err := env.run(t, "", "import", "--url", "http://www.ics.uci.edu/", page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Stored http://www.ics.uci.edu/") {
		t.Errorf("output = %q", out)
	}

	if _, err := env.run(t, "", "import", page); err == nil {
		t.Error("expected error without --url")
	}
}

func TestReplayCmd(t *testing.T) {
	t.Parallel()

	t.Run("replays stored pages and writes the reports", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		importPages(t, env)

		reportPath := filepath.Join(env.dir, "out", "Crawler_Report.txt")
		markdownPath := filepath.Join(env.dir, "out", "report.md")
		metricsPath := filepath.Join(env.dir, "scopecrawl.prom")
		out, err := env.run(t, "", "replay",
			"--concurrency", "2",
			"--report", reportPath,
			"--markdown-report", markdownPath,
			"--metrics-file", metricsPath,
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "3 pages, 1 failed, 2 links admitted, 4 rejected, 1 unique pages") {
			t.Errorf("unexpected summary %q", out)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		text := string(data)
		for _, want := range []string{
			"--- CRAWLER REPORT ---\n",
			"Unique Pages Found: 1\n",
			"--- TOP 50 COMMON WORDS ---\n",
			"computer: 2\n",
			"--- SUBDOMAINS ---\n",
			"www.ics.uci.edu, 2\n",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("report missing %q:\n%s", want, text)
			}
		}

		md, err := os.ReadFile(markdownPath)
		if err != nil {
			t.Fatalf("failed to read markdown report: %v", err)
		}
		if !strings.Contains(string(md), "www.ics.uci.edu") {
			t.Errorf("markdown report missing subdomain:\n%s", md)
		}

		prom, err := os.ReadFile(metricsPath)
		if err != nil {
			t.Fatalf("failed to read metrics: %v", err)
		}
		for _, want := range []string{
			`scopecrawl_pages_total{outcome="ok"} 2`,
			`scopecrawl_pages_total{outcome="fetch_status"} 1`,
			`scopecrawl_links_total{decision="rejected",rule="domain"} 2`,
			`scopecrawl_reports_total{result="written"} 1`,
		} {
			if !strings.Contains(string(prom), want) {
				t.Errorf("metrics missing %q:\n%s", want, prom)
			}
		}
	})

	t.Run("skips the final report when disabled", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		importPages(t, env)

		reportPath := filepath.Join(env.dir, "Crawler_Report.txt")
		if _, err := env.run(t, "", "replay", "--report", reportPath, "--final-report=false"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(reportPath); !os.IsNotExist(err) {
			t.Errorf("expected no report below the interval, got %v", err)
		}
	})

	t.Run("prints the final statistics", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		importPages(t, env)

		out, err := env.run(t, "", "replay", "--report", filepath.Join(env.dir, "r.txt"), "--print", "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "--- CRAWLER REPORT ---") {
			t.Errorf("expected printed report, got %q", out)
		}
	})

	t.Run("rejects an unknown print format", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		importPages(t, env)

		if _, err := env.run(t, "", "replay", "--print", "html"); err == nil {
			t.Error("expected error for an unknown print format")
		}
	})

	t.Run("fails without a database", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		if _, err := env.run(t, "", "replay", "--report", filepath.Join(env.dir, "r.txt")); err == nil {
			t.Error("expected error for a missing database")
		}
	})
}

func TestLinksCmd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	importPages(t, env)

	out, err := env.run(t, "", "replay", "--report", filepath.Join(env.dir, "r.txt"))
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	id := runID(t, out)

	t.Run("lists runs", func(t *testing.T) {
		out, err := env.run(t, "", "links", "--list-runs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, id) {
			t.Errorf("expected run %s in output %q", id, out)
		}
	})

	t.Run("lists all decisions of a run", func(t *testing.T) {
		out, err := env.run(t, "", "links", "--run", id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(out, "ADMIT http://www.ics.uci.edu/people") != 2 {
			t.Errorf("expected two admitted links, got %q", out)
		}
		if strings.Count(out, "REJECT domain http://example.com/") != 2 {
			t.Errorf("expected two domain rejections, got %q", out)
		}
	})

	t.Run("lists admitted links only", func(t *testing.T) {
		out, err := env.run(t, "", "links", "--run", id, "--admitted")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out, "REJECT") {
			t.Errorf("expected no rejections, got %q", out)
		}
	})

	t.Run("requires a run", func(t *testing.T) {
		if _, err := env.run(t, "", "links"); err == nil {
			t.Error("expected error without --run")
		}
		if _, err := env.run(t, "", "links", "--run", "unknown"); err == nil {
			t.Error("expected error for an unknown run")
		}
	})
}

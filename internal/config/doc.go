// Package config provides configuration structures and utilities for
// scopecrawl. It defines report, replay and storage settings and loads the
// optional .scopecrawl YAML file that tunes the admissibility policy tables
// and the stop-word list.
package config

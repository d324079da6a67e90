package cobertura_test

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/yaklabco/covxml/pkg/cobertura"
)

func TestRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hit      int
		total    int
		expected string
	}{
		{name: "vacuous", hit: 0, total: 0, expected: "1"},
		{name: "vacuous ignores hits", hit: 5, total: 0, expected: "1"},
		{name: "full", hit: 10, total: 10, expected: "1"},
		{name: "none", hit: 0, total: 7, expected: "0"},
		{name: "eighty percent", hit: 16, total: 20, expected: "0.8"},
		{name: "seven eighths", hit: 7, total: 8, expected: "0.875"},
		{name: "third", hit: 1, total: 3, expected: "0.3333"},
		{name: "two thirds", hit: 2, total: 3, expected: "0.6667"},
		{name: "ten thousandth", hit: 1, total: 10000, expected: "0.0001"},
		{name: "tiny fraction", hit: 1, total: 100000, expected: "0.00001"},
		{name: "large totals", hit: 123456, total: 1234567, expected: "0.1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := cobertura.Rate(testCase.hit, testCase.total); got != testCase.expected {
				t.Errorf("Rate(%d, %d) = %q, want %q", testCase.hit, testCase.total, got, testCase.expected)
			}
		})
	}
}

func TestRateParsesBack(t *testing.T) {
	t.Parallel()

	for total := 1; total <= 200; total++ {
		for hit := 0; hit <= total; hit++ {
			got := cobertura.Rate(hit, total)
			if strings.ContainsAny(got, "eE,") {
				t.Fatalf("Rate(%d, %d) = %q uses exponent or separator", hit, total, got)
			}

			value, err := strconv.ParseFloat(got, 64)
			if err != nil {
				t.Fatalf("Rate(%d, %d) = %q does not parse: %v", hit, total, got, err)
			}

			want := float64(hit) / float64(total)
			if math.Abs(value-want) > 1e-4 {
				t.Fatalf("Rate(%d, %d) = %q, off from %v by more than 1e-4", hit, total, got, want)
			}
			if value < 0 || value > 1 {
				t.Fatalf("Rate(%d, %d) = %q outside [0,1]", hit, total, got)
			}
		}
	}
}

func TestConditionCoverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		taken    int
		total    int
		expected string
	}{
		{taken: 3, total: 4, expected: "75% (3/4)"},
		{taken: 1, total: 3, expected: "33% (1/3)"},
		{taken: 2, total: 3, expected: "66% (2/3)"},
		{taken: 2, total: 2, expected: "100% (2/2)"},
		{taken: 0, total: 2, expected: "0% (0/2)"},
	}

	for _, testCase := range tests {
		t.Run(testCase.expected, func(t *testing.T) {
			t.Parallel()

			if got := cobertura.ConditionCoverage(testCase.taken, testCase.total); got != testCase.expected {
				t.Errorf("ConditionCoverage(%d, %d) = %q, want %q",
					testCase.taken, testCase.total, got, testCase.expected)
			}
		})
	}
}

func TestMissingBranches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		targets  []int
		expected string
	}{
		{name: "line and exit", targets: []int{5, -1}, expected: "5,exit"},
		{name: "order kept", targets: []int{12, 3}, expected: "12,3"},
		{name: "any negative is exit", targets: []int{-7}, expected: "exit"},
		{name: "empty", targets: nil, expected: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := cobertura.MissingBranches(testCase.targets); got != testCase.expected {
				t.Errorf("MissingBranches(%v) = %q, want %q", testCase.targets, got, testCase.expected)
			}
		})
	}
}

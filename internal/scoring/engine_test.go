package scoring

import (
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestScoreWeightedComposite(t *testing.T) {
	engine := NewEngine()

	result := engine.Score(SubScores{
		Founder:   floatPtr(90),
		Problem:   floatPtr(80),
		UserValue: floatPtr(85),
		Execution: floatPtr(75),
	})

	// 90*0.25 + 80*0.25 + 85*0.30 + 75*0.20 = 83
	if !result.Scored {
		t.Fatal("expected a scored result")
	}
	if result.OverallScore != 83 {
		t.Errorf("expected composite 83, got %v", result.OverallScore)
	}
	if result.Grade != "B" {
		t.Errorf("expected grade B, got %s", result.Grade)
	}
	if result.Recommendation != "yes" {
		t.Errorf("expected recommendation yes, got %s", result.Recommendation)
	}
	if result.ColorBucket != "green" {
		t.Errorf("expected green bucket, got %s", result.ColorBucket)
	}
}

func TestScoreRedistributesMissingWeights(t *testing.T) {
	engine := NewEngine()

	// Only founder and execution present: weights renormalize to
	// 0.25/0.45 and 0.20/0.45.
	result := engine.Score(SubScores{
		Founder:   floatPtr(90),
		Execution: floatPtr(45),
	})

	if !result.Scored {
		t.Fatal("expected a scored result")
	}
	// (90*0.25 + 45*0.20) / 0.45 = 70
	if result.OverallScore != 70 {
		t.Errorf("expected composite 70, got %v", result.OverallScore)
	}
}

func TestScoreSingleSubScorePassesThrough(t *testing.T) {
	engine := NewEngine()

	result := engine.Score(SubScores{UserValue: floatPtr(62)})
	if result.OverallScore != 62 {
		t.Errorf("expected composite 62, got %v", result.OverallScore)
	}
}

func TestScoreAllAbsentIsUnscored(t *testing.T) {
	engine := NewEngine()

	result := engine.Score(SubScores{})
	if result.Scored {
		t.Error("expected unscored result when every sub-score is absent")
	}
	if result.OverallScore != 0 || result.Grade != "" {
		t.Error("unscored result should carry zero values")
	}
}

func TestScoreClampsOutOfRangeInputs(t *testing.T) {
	engine := NewEngine()

	result := engine.Score(SubScores{
		Founder: floatPtr(150),
		Problem: floatPtr(-20),
	})

	// clamp(150)=100, clamp(-20)=0: (100*0.25 + 0*0.25) / 0.5 = 50
	if result.OverallScore != 50 {
		t.Errorf("expected composite 50 after clamping, got %v", result.OverallScore)
	}
}

func TestScoreRoundsHalfUp(t *testing.T) {
	engine := NewEngine()

	// 76*0.25 + 77*0.25 = 38.25, / 0.5 = 76.5 rounds to 77
	result := engine.Score(SubScores{
		Founder: floatPtr(76),
		Problem: floatPtr(77),
	})
	if result.OverallScore != 77 {
		t.Errorf("expected 76.5 to round up to 77, got %v", result.OverallScore)
	}
}

func TestGradeBoundaries(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		score          float64
		grade          string
		recommendation string
		bucket         string
	}{
		{100, "A", "strong_yes", "green"},
		{90, "A", "strong_yes", "green"},
		{89, "B", "yes", "green"},
		{75, "B", "yes", "green"},
		{74, "C", "maybe", "blue"},
		{50, "C", "maybe", "blue"},
		{49, "D", "weak_no", "yellow"},
		{25, "D", "weak_no", "yellow"},
		{24, "F", "no", "red"},
		{0, "F", "no", "red"},
	}

	for _, tt := range tests {
		// A single sub-score passes through unchanged, which makes
		// boundary values easy to pin down.
		result := engine.Score(SubScores{Founder: floatPtr(tt.score)})
		if result.Grade != tt.grade {
			t.Errorf("score %v: expected grade %s, got %s", tt.score, tt.grade, result.Grade)
		}
		if result.Recommendation != tt.recommendation {
			t.Errorf("score %v: expected recommendation %s, got %s", tt.score, tt.recommendation, result.Recommendation)
		}
		if result.ColorBucket != tt.bucket {
			t.Errorf("score %v: expected bucket %s, got %s", tt.score, tt.bucket, result.ColorBucket)
		}
	}
}

func TestColorBucketSharedThresholds(t *testing.T) {
	tests := []struct {
		score  float64
		bucket string
	}{
		{75, "green"},
		{74.9, "blue"},
		{50, "blue"},
		{49.9, "yellow"},
		{25, "yellow"},
		{24.9, "red"},
	}

	for _, tt := range tests {
		if got := ColorBucket(tt.score); got != tt.bucket {
			t.Errorf("ColorBucket(%v) = %s, expected %s", tt.score, got, tt.bucket)
		}
	}
}

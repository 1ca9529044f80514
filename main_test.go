package main

import "testing"

func TestResolveSeeds(t *testing.T) {
	tests := []struct {
		name       string
		seed       int64
		courseSeed int64
		courseSet  bool
		wantSeed   int64
		wantCourse int64
	}{
		{"course follows seed", 5, 0, false, 5, 5},
		{"explicit course seed", 5, 9, true, 5, 9},
		{"explicit zero course seed", 5, 0, true, 5, 0},
		{"time based seed", 0, 0, false, 1234, 1234},
		{"time based seed with fixed course", 0, 3, true, 1234, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, course := resolveSeeds(tt.seed, tt.courseSeed, tt.courseSet, 1234)
			if seed != tt.wantSeed || course != tt.wantCourse {
				t.Errorf("resolveSeeds = %d, %d; want %d, %d", seed, course, tt.wantSeed, tt.wantCourse)
			}
		})
	}
}

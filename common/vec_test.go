package common

import "testing"

func TestRectClampPoint(t *testing.T) {
	r := Rect{Min: V(-50, -50), Max: V(50, 50)}
	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"inside", V(3, -4), V(3, -4)},
		{"right", V(80, 10), V(50, 10)},
		{"corner", V(-90, 120), V(-50, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ClampPoint(tt.in)
			if got != tt.want {
				t.Fatalf("ClampPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !r.Contains(got) {
				t.Fatalf("clamped point %v outside rect", got)
			}
		})
	}
}

func TestVecNorm(t *testing.T) {
	if n := V(3, 4).Norm(); n.Len() < 0.999999 || n.Len() > 1.000001 {
		t.Fatalf("expected unit vector, got %v", n)
	}
	if (Vec2{}).Norm() != (Vec2{}) {
		t.Fatalf("zero vector must normalize to zero")
	}
}

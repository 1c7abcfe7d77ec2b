package shadekit

import "testing"

func TestVectorConstructors(t *testing.T) {
	if got := V2(1, 2); got != (Vec2{1, 2}) {
		t.Errorf("V2 = %v", got)
	}
	if got := V3(1, 2, 3); got != (Vec3{1, 2, 3}) {
		t.Errorf("V3 = %v", got)
	}
	if got := V4(1, 2, 3, 4); got != (Vec4{1, 2, 3, 4}) {
		t.Errorf("V4 = %v", got)
	}
	if got := V3(1, 2, 3).Vec4(1); got != (Vec4{1, 2, 3, 1}) {
		t.Errorf("Vec3.Vec4(1) = %v", got)
	}
}

//go:build linux

package model

import "golang.org/x/sys/unix"

// InputEvent 对应 C 结构体 input_event
/*
struct input_event {
	struct timeval time;
	__u16 type;
	__u16 code;
	__s32 value;
};
*/
type InputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

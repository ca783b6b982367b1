//go:build linux

package monitor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Hara602/hidSentry/internal/model"
)

// evdevStream 读取 /dev/input/eventN 上的 input_event
type evdevStream struct {
	f         *os.File
	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

// OpenEvdev 打开事件设备，需要 root 或 input 组权限
func OpenEvdev(path string) (KeySource, error) {
	// evdev 字符设备支持 poll，os.File 走 netpoller，Close 能打断阻塞的 Read
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &evdevStream{f: f, closed: make(chan struct{})}, nil
}

func (s *evdevStream) Next() (model.KeyEvent, error) {
	var raw model.InputEvent
	// 内核每次 read 返回整数个 input_event
	if err := binary.Read(s.f, binary.NativeEndian, &raw); err != nil {
		select {
		case <-s.closed:
			return model.KeyEvent{}, ErrClosed
		default:
		}
		if errors.Is(err, os.ErrClosed) {
			return model.KeyEvent{}, ErrClosed
		}
		return model.KeyEvent{}, fmt.Errorf("%w: %v", model.ErrStreamReadFailure, err)
	}
	return model.KeyEvent{
		Type:      raw.Type,
		Code:      raw.Code,
		Value:     raw.Value,
		TimeStamp: time.Unix(int64(raw.Time.Sec), int64(raw.Time.Usec)*int64(time.Microsecond)),
	}, nil
}

func (s *evdevStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.closeErr = s.f.Close()
	})
	return s.closeErr
}

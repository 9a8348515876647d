package model_test

import (
	"sync"
	"testing"

	"github.com/cupstack/waitlab/core/model"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := model.NewStateManager()

	if s.IsFitted() {
		t.Error("new StateManager should not be fitted")
	}

	s.SetFitted()
	s.SetDimensions(153, 500)

	if !s.IsFitted() {
		t.Error("StateManager should be fitted after SetFitted")
	}
	if f, n := s.Dimensions(); f != 153 || n != 500 {
		t.Errorf("Dimensions() = (%d, %d), want (153, 500)", f, n)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("StateManager should not be fitted after Reset")
	}
	if f, n := s.Dimensions(); f != 0 || n != 0 {
		t.Errorf("Dimensions() after Reset = (%d, %d), want (0, 0)", f, n)
	}
}

func TestStateManagerConcurrentReads(t *testing.T) {
	s := model.NewStateManager()
	s.SetFitted()
	s.SetDimensions(10, 100)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !s.IsFitted() {
					t.Error("fitted state lost under concurrent reads")
					return
				}
				_, _ = s.Dimensions()
			}
		}()
	}
	wg.Wait()
}

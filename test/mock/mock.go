package mock

import (
	"fmt"
)

type MockLog struct {
	Name  string
	Quiet bool
}

func (l *MockLog) Debug(args ...interface{}) {
	if !l.Quiet {
		fmt.Println(args...)
	}
}
func (l *MockLog) Debugf(format string, args ...interface{}) {
	if !l.Quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func (l *MockLog) Info(args ...interface{}) {
	if !l.Quiet {
		fmt.Println(args...)
	}
}

func (l *MockLog) Infof(format string, args ...interface{}) {
	if !l.Quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func (l *MockLog) Warn(args ...interface{}) {
	if !l.Quiet {
		fmt.Println(args...)
	}
}

func (l *MockLog) Warnf(format string, args ...interface{}) {
	if !l.Quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func (l *MockLog) Error(args ...interface{}) {
	if !l.Quiet {
		fmt.Println(args...)
	}
}

func (l *MockLog) Errorf(format string, args ...interface{}) {
	if !l.Quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func GetMockLogger(name string) *MockLog {
	return &MockLog{Name: name, Quiet: true}
}

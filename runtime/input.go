package mruntime

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// InputRequest describes one pending read. Target is the variable that will
// receive the value: the name assigned or declared from a direct input()
// call. It is empty when input() sits inside a larger expression and for
// the bare statement.
type InputRequest struct {
	Target string
}

// InputProvider returns one raw line. io.EOF means no more input.
type InputProvider func(req InputRequest) (string, error)

// LineReader serves one line of r per request.
func LineReader(r io.Reader) InputProvider {
	br := bufio.NewReader(r)
	return func(InputRequest) (string, error) {
		line, err := br.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line != "" {
				return strings.TrimRight(line, "\r\n"), nil
			}
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// EnqueueInput queues lines that are consumed before the input provider is
// asked.
func (vm *VM) EnqueueInput(values ...string) {
	vm.queue = append(vm.queue, values...)
}

func (vm *VM) consumeQueuedInput() (string, bool) {
	if len(vm.queue) == 0 {
		return "", false
	}
	v := vm.queue[0]
	vm.queue = vm.queue[1:]
	return v, true
}

func (vm *VM) readLine(req InputRequest) (string, error) {
	if raw, ok := vm.consumeQueuedInput(); ok {
		return raw, nil
	}
	if vm.inputProvider == nil {
		return "", errorf(InputFormat, "no more input")
	}
	raw, err := vm.inputProvider(req)
	if errors.Is(err, io.EOF) {
		return "", errorf(InputFormat, "no more input")
	}
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (vm *VM) readInteger(req InputRequest) (Value, error) {
	raw, err := vm.readLine(req)
	if err != nil {
		return Value{}, err
	}
	n, ok := parseIntInput(raw)
	if !ok {
		return Value{}, errorf(InputFormat, "input must be an integer, got %q", raw)
	}
	return Int(n), nil
}

// parseIntInput accepts an optionally signed base-10 integer surrounded by
// whitespace.
func parseIntInput(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

package core

import "errors"

// mockGPIODriver is a test implementation of GPIODriver. It checks the
// bridge outputs after every single pin write.
type mockGPIODriver struct {
	pins       map[GPIOPin]bool
	configured map[GPIOPin]bool
	inputs     map[GPIOPin]bool
	writes     int
	shorts     int
	failSet    bool

	inA, inB GPIOPin
}

func newMockGPIODriver(inA, inB GPIOPin) *mockGPIODriver {
	return &mockGPIODriver{
		pins:       make(map[GPIOPin]bool),
		configured: make(map[GPIOPin]bool),
		inputs:     make(map[GPIOPin]bool),
		inA:        inA,
		inB:        inB,
	}
}

func (m *mockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.configured[pin] = true
	m.pins[pin] = false
	return nil
}

func (m *mockGPIODriver) ConfigureInputPullUp(pin GPIOPin) error {
	m.inputs[pin] = true
	m.pins[pin] = true
	return nil
}

func (m *mockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if m.failSet {
		return errors.New("set failed")
	}
	m.pins[pin] = value
	m.writes++
	if m.pins[m.inA] && m.pins[m.inB] {
		m.shorts++
	}
	return nil
}

func (m *mockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

// mockPWMDriver is a test implementation of PWMDriver
type mockPWMDriver struct {
	max      uint32
	periodNS uint64
	values   []PWMValue
	failSet  bool
}

func (m *mockPWMDriver) ConfigureHardwarePWM(pin PWMPin, periodNS uint64) error {
	m.periodNS = periodNS
	return nil
}

func (m *mockPWMDriver) SetDutyCycle(pin PWMPin, value PWMValue) error {
	if m.failSet {
		return errors.New("pwm failed")
	}
	m.values = append(m.values, value)
	return nil
}

func (m *mockPWMDriver) GetMaxValue(pin PWMPin) uint32 {
	return m.max
}

func (m *mockPWMDriver) last() PWMValue {
	if len(m.values) == 0 {
		return 0
	}
	return m.values[len(m.values)-1]
}

var testPins = BridgePins{InA: 2, InB: 4, Enable: 6, PWM: 9}

// testRig is a dispatcher wired to mock drivers
type testRig struct {
	gpio    *mockGPIODriver
	pwm     *mockPWMDriver
	mailbox *Mailbox
	decoder *Decoder
	disp    *Dispatcher
	lines   []string
}

func newTestRig() (*testRig, error) {
	r := &testRig{
		gpio:    newMockGPIODriver(testPins.InA, testPins.InB),
		pwm:     &mockPWMDriver{max: DutyTop},
		mailbox: &Mailbox{},
	}
	r.decoder = NewDecoder(r.mailbox)

	bridge, err := NewBridge(r.gpio, testPins)
	if err != nil {
		return nil, err
	}
	output, err := NewMotorPWM(r.pwm, testPins.PWM, DefaultConfig())
	if err != nil {
		return nil, err
	}
	r.disp, err = NewDispatcher(r.mailbox, bridge, output, func(s string) {
		r.lines = append(r.lines, s)
	}, DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := r.disp.Boot(); err != nil {
		return nil, err
	}
	return r, nil
}

// send decodes each byte and runs one tick after it
func (r *testRig) send(keys string) {
	for i := 0; i < len(keys); i++ {
		r.decoder.Receive(keys[i])
		r.disp.Step()
	}
}

func (r *testRig) pinPair() (bool, bool) {
	return r.gpio.pins[testPins.InA], r.gpio.pins[testPins.InB]
}

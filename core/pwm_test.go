package core

import "testing"

func TestMotorPWMPassThrough(t *testing.T) {
	drv := &mockPWMDriver{max: DutyTop}
	out, err := NewMotorPWM(drv, testPins.PWM, DefaultConfig())
	if err != nil {
		t.Fatalf("NewMotorPWM failed: %v", err)
	}

	if drv.periodNS != 100000 {
		t.Errorf("Expected 100us carrier period, got %dns", drv.periodNS)
	}
	if out.State() != PWMIdle {
		t.Errorf("Expected IDLE after configuration, got %v", out.State())
	}

	duty := DefaultDutyCycle()
	duty.Increment()
	duty.Increment()
	if err := out.Push(duty); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if drv.last() != 20 {
		t.Errorf("Expected compare value 20, got %d", drv.last())
	}
	if out.State() != PWMRunning {
		t.Errorf("Expected RUNNING, got %v", out.State())
	}
}

func TestMotorPWMScaling(t *testing.T) {
	// A 16-bit counter at the same carrier
	drv := &mockPWMDriver{max: 12500}
	out, err := NewMotorPWM(drv, testPins.PWM, DefaultConfig())
	if err != nil {
		t.Fatalf("NewMotorPWM failed: %v", err)
	}

	duty := DefaultDutyCycle()
	for duty.Increment() {
	}
	if err := out.Push(duty); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if drv.last() != 12500 {
		t.Errorf("Full duty should map to counter top 12500, got %d", drv.last())
	}

	for duty.Value() > 100 {
		duty.Decrement()
	}
	out.Push(duty)
	if drv.last() != 6250 {
		t.Errorf("Half duty should map to 6250, got %d", drv.last())
	}

	for duty.Decrement() {
	}
	out.Push(duty)
	if drv.last() != 0 || out.State() != PWMIdle {
		t.Errorf("Zero duty should be 0/IDLE, got %d/%v", drv.last(), out.State())
	}
}

func TestMotorPWMScalingTimer1Top(t *testing.T) {
	// Timer1 at 16MHz with no prescaler and a 100us period
	drv := &mockPWMDriver{max: 1600}
	out, err := NewMotorPWM(drv, testPins.PWM, DefaultConfig())
	if err != nil {
		t.Fatalf("NewMotorPWM failed: %v", err)
	}

	duty := DefaultDutyCycle()
	duty.Increment()
	out.Push(duty)
	if drv.last() != 80 {
		t.Errorf("One step should map to 80, got %d", drv.last())
	}

	for duty.Increment() {
	}
	out.Push(duty)
	if drv.last() != 1600 {
		t.Errorf("Full duty should map to counter top 1600, got %d", drv.last())
	}
}

func TestMotorPWMPushError(t *testing.T) {
	drv := &mockPWMDriver{max: DutyTop}
	out, err := NewMotorPWM(drv, testPins.PWM, DefaultConfig())
	if err != nil {
		t.Fatalf("NewMotorPWM failed: %v", err)
	}

	pushes := out.Pushes()
	drv.failSet = true
	if err := out.Push(DefaultDutyCycle()); err == nil {
		t.Error("Expected push error")
	}
	if out.Pushes() != pushes {
		t.Error("Failed push must not be counted")
	}
}

package capacitortest

import (
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/debounce/capacitor"
)

// Mock is a stretchr mock for capacitor.Interface.  Submit matches any function, since
// functions cannot be compared.
type Mock struct {
	mock.Mock
}

var _ capacitor.Interface = (*Mock)(nil)

func (m *Mock) Submit(f func()) {
	m.Called(f)
}

func (m *Mock) OnSubmit() *mock.Call {
	return m.On("Submit", mock.AnythingOfType("func()"))
}

func (m *Mock) Discharge() {
	m.Called()
}

func (m *Mock) OnDischarge() *mock.Call {
	return m.On("Discharge")
}

func (m *Mock) Cancel() {
	m.Called()
}

func (m *Mock) OnCancel() *mock.Call {
	return m.On("Cancel")
}

func (m *Mock) Pending() bool {
	return m.Called().Bool(0)
}

func (m *Mock) OnPending(v bool) *mock.Call {
	return m.On("Pending").Return(v)
}

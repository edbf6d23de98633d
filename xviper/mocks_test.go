package xviper

import "github.com/stretchr/testify/mock"

type mockConfiger struct {
	mock.Mock
}

func (m *mockConfiger) AddConfigPath(v string) {
	m.Called(v)
}

func (m *mockConfiger) SetConfigName(v string) {
	m.Called(v)
}

func (m *mockConfiger) SetConfigFile(v string) {
	m.Called(v)
}

type mockDefaulter struct {
	mock.Mock
}

func (m *mockDefaulter) SetDefault(k string, v interface{}) {
	m.Called(k, v)
}

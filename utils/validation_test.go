package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDNI(t *testing.T) {
	assert.Equal(t, "30111222", NormalizeDNI("30.111.222"))
	assert.Equal(t, "30111222", NormalizeDNI("30111222"))
	assert.Equal(t, "30111222", NormalizeDNI(" 30 111 222 "))
	assert.Equal(t, "", NormalizeDNI("abc"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "1155667788", NormalizePhone("11-5566-7788"))
	assert.Equal(t, "5491155667788", NormalizePhone("+54 9 11 5566-7788"))
}

func TestValidPersonName(t *testing.T) {
	assert.True(t, ValidPersonName("Ana"))
	assert.True(t, ValidPersonName("Maria Jose"))
	assert.True(t, ValidPersonName("Muñoz")) // accented letters allowed
	assert.False(t, ValidPersonName("A"))
	assert.False(t, ValidPersonName("An4"))
	assert.False(t, ValidPersonName("Ana-Maria"))
	assert.False(t, ValidPersonName(""))
}

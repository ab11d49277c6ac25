package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewName_Canonicalizes(t *testing.T) {
	assert.Equal(t, Name("example.com."), NewName("Example.COM"))
	assert.Equal(t, Name("example.com."), NewName(" example.com. "))
	assert.Equal(t, Root, NewName(""))
	assert.Equal(t, Root, NewName("."))
}

func TestName_Labels(t *testing.T) {
	n := NewName("www.example.com")
	assert.Equal(t, []string{"www", "example", "com"}, n.Labels())
	assert.Equal(t, 3, n.LabelCount())
	assert.Nil(t, Root.Labels())
	assert.Equal(t, 0, Root.LabelCount())
}

func TestName_Parent(t *testing.T) {
	n := NewName("www.example.com")
	assert.Equal(t, NewName("example.com"), n.Parent())
	assert.Equal(t, NewName("com"), n.Parent().Parent())
	assert.Equal(t, Root, n.Parent().Parent().Parent())
	assert.Equal(t, Root, Root.Parent())
}

func TestName_Ancestor(t *testing.T) {
	n := NewName("www.example.com")
	assert.Equal(t, Root, n.Ancestor(0))
	assert.Equal(t, NewName("com"), n.Ancestor(1))
	assert.Equal(t, NewName("example.com"), n.Ancestor(2))
	assert.Equal(t, n, n.Ancestor(3))
	assert.Equal(t, n, n.Ancestor(10))
}

func TestName_IsSubdomainOf(t *testing.T) {
	n := NewName("www.example.com")
	assert.True(t, n.IsSubdomainOf(NewName("example.com")))
	assert.True(t, n.IsSubdomainOf(NewName("com")))
	assert.True(t, n.IsSubdomainOf(Root))
	assert.True(t, n.IsSubdomainOf(n))
	assert.False(t, n.IsSubdomainOf(NewName("other.com")))
	assert.False(t, NewName("evil-example.com").IsSubdomainOf(NewName("example.com")))
}

func TestName_CommonSuffixLabels(t *testing.T) {
	a := NewName("www.example.com")
	b := NewName("mail.example.com")
	assert.Equal(t, 2, a.CommonSuffixLabels(b))
	assert.Equal(t, 0, a.CommonSuffixLabels(NewName("example.org")))
}

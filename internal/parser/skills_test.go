package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractSkillsTaxonomy 词表匹配：大小写无关的子串命中，结果转Title Case
func TestExtractSkillsTaxonomy(t *testing.T) {
	skills := ExtractSkills("Proficient in python and react, uses MySQL daily")

	// "mysql"同时命中"sql"和"mysql"两个词表关键词，这是子串匹配的既有行为
	assert.Equal(t, []string{"Python", "Sql", "React", "Mysql"}, skills,
		"词表命中项应按词表顺序排列并转为Title Case")
}

// TestExtractSkillsUppercaseInput 全大写输入同样命中词表
func TestExtractSkillsUppercaseInput(t *testing.T) {
	skills := ExtractSkills("PYTHON")

	require.Len(t, skills, 1)
	assert.Equal(t, "Python", skills[0])
}

// TestExtractSkillsFreeText 自由文本遍：定位Skills标题后按切分符拆token
func TestExtractSkillsFreeText(t *testing.T) {
	skills := ExtractSkills("Skills: Golang, Microservices, gRPC")

	// "golang"先被词表关键词"go"子串命中，之后自由文本遍补充原样token
	assert.Equal(t, []string{"Go", "Golang", "Microservices", "gRPC"}, skills,
		"词表命中在前，自由文本token按出现顺序在后，大小写原样保留")
}

// TestExtractSkillsTokenLengthBounds 自由文本token长度须在(2,25)开区间内
func TestExtractSkillsTokenLengthBounds(t *testing.T) {
	skills := ExtractSkills("Skills: Qt, SomeExtremelyLongTechnologyName")

	assert.Empty(t, skills, "2字符及以下、25字符及以上的token应被丢弃")
}

// TestExtractSkillsMultilineSection 多行技能小节读取到空行为止
func TestExtractSkillsMultilineSection(t *testing.T) {
	text := "Technical Skills:\nDistributed Systems\nMessage Queues\n\nEducation\nSome University"

	skills := ExtractSkills(text)

	assert.Contains(t, skills, "Distributed Systems")
	assert.Contains(t, skills, "Message Queues")
	assert.NotContains(t, skills, "Some University", "空行之后的内容不属于技能小节")
}

// TestExtractSkillsCap 技能最多保留20条，截断顺序确定
func TestExtractSkillsCap(t *testing.T) {
	tokens := make([]string, 25)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("Tech%02d", i+1)
	}
	text := "Skills: " + strings.Join(tokens, ", ")

	skills := ExtractSkills(text)

	require.Len(t, skills, 20, "超过20项时应截断")
	assert.Equal(t, "Tech01", skills[0])
	assert.Equal(t, "Tech20", skills[19])
}

// TestExtractSkillsDedup 同一技能在多处出现只保留一次
func TestExtractSkillsDedup(t *testing.T) {
	skills := ExtractSkills("Skills: Kafka, Kafka, Kafka")

	assert.Equal(t, []string{"Kafka"}, skills)
}

func TestExtractSkillsEmpty(t *testing.T) {
	assert.Empty(t, ExtractSkills(""))
	assert.Empty(t, ExtractSkills("nothing technical here"))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"python", "Python"},
		{"power bi", "Power Bi"},
		{"node.js", "Node.Js"},
		{"c++", "C++"},
		{"scikit-learn", "Scikit-Learn"},
		{"MYSQL", "Mysql"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, titleCase(tt.in), "titleCase(%q)", tt.in)
	}
}

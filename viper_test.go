package watermarks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	watermarkserrors "github.com/leodido/watermarks/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readConfig(suite *watermarksSuite, content string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	suite.Require().NoError(v.ReadConfig(bytes.NewBufferString(content)))

	return v
}

func (suite *watermarksSuite) TestLoad_Defaults() {
	s, err := Load(context.Background(), viper.New())
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), NewSettings().Record(), s.Record())
}

func (suite *watermarksSuite) TestLoad_FromYAML() {
	v := readConfig(suite, `
enabled: true
folders: "./obj;/repo/bin"
positionTop: true
text: "${CurrentFileName}"
textSize: 24
fontFamily: "  Fira Code  "
bold: true
textColor: "#00ff00"
borderMargin: 4
borderOpacity: 0.5
showDebugOutput: true
`)

	s, err := Load(context.Background(), v)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), s.Enabled())
	assert.True(suite.T(), s.PositionTop())
	assert.False(suite.T(), s.PositionLeft())
	assert.Equal(suite.T(), []string{"obj"}, s.RelativeFolders())
	assert.Equal(suite.T(), []string{"/repo/bin"}, s.AbsoluteFolders())
	assert.True(suite.T(), s.Template().Uses(TokenFileName))
	assert.True(suite.T(), s.ShowDebugOutput())

	st := s.Style()
	assert.Equal(suite.T(), 24.0, st.TextSize)
	assert.Equal(suite.T(), "Fira Code", st.FontFamily)
	assert.True(suite.T(), st.Bold)
	assert.Equal(suite.T(), "#00ff00", st.TextColor)
	assert.Equal(suite.T(), "Gray", st.BorderColor)
	assert.Equal(suite.T(), 4.0, st.BorderMargin)
	assert.Equal(suite.T(), 0.5, st.BorderOpacity)
}

func (suite *watermarksSuite) TestLoad_FolderSlice() {
	v := readConfig(suite, `
folders:
  - ./obj
  - " /repo/bin "
  - ""
`)

	s, err := Load(context.Background(), v)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "./obj;/repo/bin", s.Folders())
}

func (suite *watermarksSuite) TestLoad_Invalid() {
	v := readConfig(suite, `
textSize: 0
fontFamily: "   "
borderOpacity: 2
borderPadding: -1
`)

	_, err := Load(context.Background(), v)
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, watermarkserrors.ErrInvalidSettings))

	var validationErr *watermarkserrors.ValidationError
	require.True(suite.T(), errors.As(err, &validationErr))
	assert.Len(suite.T(), validationErr.UnderlyingErrors(), 4)
}

func (suite *watermarksSuite) TestLoad_DecodeFailure() {
	v := readConfig(suite, `
textSize: huge
`)

	_, err := Load(context.Background(), v)
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "couldn't decode the watermark settings")
}

func (suite *watermarksSuite) TestSave_RoundTrip() {
	s := NewSettings()
	s.SetEnabled(true)
	s.SetFolders(`./obj;C:\out`)
	s.SetText("IMG:/icons/lock.png")
	s.SetItalic(true)
	s.SetBackgroundColor("Black")
	s.SetBorderPadding(8)

	dir := suite.T().TempDir()
	file := filepath.Join(dir, "watermarks.yaml")

	v := viper.New()
	Save(v, s)
	require.NoError(suite.T(), v.WriteConfigAs(file))

	_, err := os.Stat(file)
	require.NoError(suite.T(), err)

	reloaded := viper.New()
	reloaded.SetConfigFile(file)
	require.NoError(suite.T(), reloaded.ReadInConfig())

	got, err := Load(context.Background(), reloaded)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), s.Record(), got.Record())
	assert.Equal(suite.T(), s.Fingerprint(), got.Fingerprint())
}

func (suite *watermarksSuite) TestLoad_ReportsSource() {
	dir := suite.T().TempDir()
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(suite.T(), os.WriteFile(file, []byte("textSize: -3\n"), 0o600))

	v := viper.New()
	v.SetConfigFile(file)
	require.NoError(suite.T(), v.ReadInConfig())

	_, err := Load(context.Background(), v)
	var validationErr *watermarkserrors.ValidationError
	require.True(suite.T(), errors.As(err, &validationErr))
	assert.Equal(suite.T(), file, validationErr.Source)
}

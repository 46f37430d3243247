package watermarks

import (
	"errors"
	"image"
	"image/png"

	watermarkserrors "github.com/leodido/watermarks/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoProjects() *fakeProjects {
	return &fakeProjects{
		projects: []Project{
			{Name: "proj1", Root: "/repo/proj1"},
			{Name: "proj2", Root: "/repo/proj2"},
		},
	}
}

func (suite *watermarksSuite) TestVisible_NoFolders() {
	suite.settings.SetFolders("")
	r := suite.newResolver(nil)

	assert.True(suite.T(), r.Visible("/anything/at/all.txt"))
	assert.True(suite.T(), r.Visible(""), "without folders the path is not even looked at")
}

func (suite *watermarksSuite) TestVisible_EmptyPath() {
	r := suite.newResolver(twoProjects())

	assert.False(suite.T(), r.Visible(""))
}

func (suite *watermarksSuite) TestVisible_AbsoluteFolder() {
	suite.settings.SetFolders("/repo/bin")
	r := suite.newResolver(nil)

	assert.True(suite.T(), r.Visible("/repo/bin/Debug/app.exe"))
	assert.True(suite.T(), r.Visible("/REPO/Bin/Debug/app.exe"))
	assert.False(suite.T(), r.Visible("/repo/src/app.exe"))
}

func (suite *watermarksSuite) TestVisible_RelativeFolder() {
	suite.settings.SetFolders("./obj")
	projects := twoProjects()
	r := suite.newResolver(projects)

	assert.True(suite.T(), r.Visible("/repo/proj1/obj/out.dll"))
	assert.True(suite.T(), r.Visible("/repo/proj1/OBJ/out.dll"))
	assert.False(suite.T(), r.Visible("/repo/proj2/src/obj.cs"))
	assert.False(suite.T(), r.Visible("/repo/proj2/src/obj/out.dll"))
}

func (suite *watermarksSuite) TestVisible_SingleProjectLookup() {
	suite.settings.SetFolders("./obj;./bin;./out")
	projects := twoProjects()
	r := suite.newResolver(projects)

	assert.False(suite.T(), r.Visible("/repo/proj1/src/a.cs"))
	assert.Equal(suite.T(), 1, projects.finds)
}

func (suite *watermarksSuite) TestVisible_MiscellaneousFile() {
	suite.settings.SetFolders("./obj")
	orphans := &orphanProjects{fakeProjects{
		projects: []Project{
			{Name: "Miscellaneous Files"},
			{Name: "proj1", Root: "/repo/proj1"},
		},
	}}
	r := suite.newResolver(orphans)

	assert.True(suite.T(), r.Visible("/repo/proj1/obj/generated.cs"))
	assert.False(suite.T(), r.Visible("/tmp/obj/generated.cs"))
}

func (suite *watermarksSuite) TestVisible_LookupFailure() {
	suite.settings.SetFolders("./obj")
	suite.settings.SetShowDebugOutput(true)
	r := suite.newResolver(&fakeProjects{findErr: errLookup})

	assert.False(suite.T(), r.Visible("/repo/proj1/obj/out.dll"))
	require.Len(suite.T(), suite.sink.messages, 1)
	assert.Equal(suite.T(), "Unable to check the watermark folders: project lookup failed: solution not loaded", suite.sink.messages[0])
}

func (suite *watermarksSuite) TestText_FileName() {
	suite.settings.SetText("${currentfilename}")
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), "Foo.txt", r.Text("/repo/src/Foo.txt"))
	assert.Equal(suite.T(), "Foo.txt", r.Text("/a/b/c/d/e/Foo.txt"))
	assert.Equal(suite.T(), "Foo.txt", r.Text(`C:\repo\src\Foo.txt`))
}

func (suite *watermarksSuite) TestText_PreservesLiteralCase() {
	suite.settings.SetText("File: ${CurrentFileName} in ${CURRENTDIRECTORYNAME}")
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), "File: Foo.txt in Src", r.Text("/repo/Src/Foo.txt"))
}

func (suite *watermarksSuite) TestText_NoTokens() {
	suite.settings.SetText("Release build")
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), "Release build", r.Text("/repo/src/Foo.txt"))
	assert.Equal(suite.T(), "Release build", r.Text(""))
}

func (suite *watermarksSuite) TestText_EmptyPath() {
	suite.settings.SetText("${currentfilename}")
	suite.settings.SetShowDebugOutput(true)
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), "", r.Text(""))
	assert.Empty(suite.T(), suite.sink.messages)
}

func (suite *watermarksSuite) TestText_ProjectTokens() {
	suite.settings.SetText("${currentprojectname}:${currentfilepathinproject}")
	r := suite.newResolver(twoProjects())

	assert.Equal(suite.T(), "proj1:/src/a.cs", r.Text("/repo/proj1/src/a.cs"))
}

func (suite *watermarksSuite) TestText_ProjectRootWinsOverAbsoluteFolders() {
	suite.settings.SetFolders("/repo")
	suite.settings.SetText("${currentfilepathinproject}")
	r := suite.newResolver(twoProjects())

	assert.Equal(suite.T(), "/src/a.cs", r.Text("/repo/proj1/src/a.cs"))
	// Outside any project the absolute folder applies
	assert.Equal(suite.T(), "/misc/a.cs", r.Text("/repo/misc/a.cs"))
}

func (suite *watermarksSuite) TestText_MiscellaneousFile() {
	suite.settings.SetFolders("./obj")
	suite.settings.SetText("${currentprojectname} ${currentfilepathinproject}")
	orphans := &orphanProjects{fakeProjects{
		projects: []Project{
			{Name: "Miscellaneous Files"},
			{Name: "proj1", Root: "/repo/proj1"},
		},
	}}
	r := suite.newResolver(orphans)

	assert.Equal(suite.T(), "${currentprojectname} /obj/generated.cs", r.Text("/repo/proj1/obj/generated.cs"))
}

func (suite *watermarksSuite) TestText_AbsoluteFolderFallback() {
	suite.settings.SetFolders("/opt/out")
	suite.settings.SetText("[${currentfilepathinproject}]")
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), "[/x/y.txt]", r.Text("/opt/out/x/y.txt"))
	assert.Equal(suite.T(), "[]", r.Text("/elsewhere/y.txt"))
}

func (suite *watermarksSuite) TestText_AllOrNothing() {
	suite.settings.SetText("${currentfilename} - ${currentprojectname} - ${currentfilepathinproject}")
	suite.settings.SetShowDebugOutput(true)
	r := suite.newResolver(&fakeProjects{findErr: errLookup})

	assert.Equal(suite.T(), "", r.Text("/repo/proj1/src/Foo.txt"))
	require.Len(suite.T(), suite.sink.messages, 1)
	assert.Equal(suite.T(),
		"Unable to set the text to ${currentfilename} - ${currentprojectname} - ${currentfilepathinproject}: "+
			"token '${currentprojectname}': path '/repo/proj1/src/Foo.txt': project lookup failed: solution not loaded",
		suite.sink.messages[0],
	)

	d := r.Resolve("/repo/proj1/src/Foo.txt")
	assert.Equal(suite.T(), Hide, d.Kind)
}

func (suite *watermarksSuite) TestSubstitute_Errors() {
	suite.settings.SetText("${currentfilepathinproject}")
	r := suite.newResolver(&fakeProjects{findErr: errLookup})

	_, err := r.substitute(suite.settings, "/repo/a.cs")
	require.Error(suite.T(), err)

	var subErr *watermarkserrors.SubstitutionError
	require.True(suite.T(), errors.As(err, &subErr))
	assert.Equal(suite.T(), CurrentFilePathInProject, subErr.Token)
	assert.True(suite.T(), errors.Is(err, watermarkserrors.ErrProjectLookup))
	assert.True(suite.T(), errors.Is(err, errLookup))

	_, err = r.substitute(suite.settings, "/repo/a\x00.cs")
	assert.True(suite.T(), errors.Is(err, watermarkserrors.ErrMalformedPath))
}

func (suite *watermarksSuite) TestReport_GatedByDebugOutput() {
	r := suite.newResolver(nil)

	r.Report("hidden", errLookup)
	assert.Empty(suite.T(), suite.sink.messages)

	suite.settings.SetShowDebugOutput(true)
	r.Report("shown", errLookup)
	r.Report("plain", nil)
	assert.Equal(suite.T(), []string{"shown: solution not loaded", "plain"}, suite.sink.messages)
}

func (suite *watermarksSuite) TestResolve_Disabled() {
	suite.settings.SetEnabled(false)
	suite.settings.SetFolders("")
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), Hide, r.Resolve("/repo/a.cs").Kind)
}

func (suite *watermarksSuite) TestResolve_NoSettings() {
	r := NewResolver(nil, nil)

	assert.Equal(suite.T(), Hide, r.Resolve("/repo/a.cs").Kind)
	assert.False(suite.T(), r.Visible("/repo/a.cs"))
	assert.Equal(suite.T(), "", r.Text("/repo/a.cs"))
}

func (suite *watermarksSuite) TestResolve_Text() {
	suite.settings.SetFolders("")
	suite.settings.SetText("${currentfilename}")
	suite.settings.SetPositionTop(true)
	r := suite.newResolver(nil)

	d := r.Resolve("/repo/src/Foo.txt")
	assert.Equal(suite.T(), ShowText, d.Kind)
	assert.Equal(suite.T(), "Foo.txt", d.Text)
	assert.Equal(suite.T(), DefaultStyle(), d.Style)
	assert.Equal(suite.T(), suite.settings.Fingerprint(), d.Fingerprint)
	assert.True(suite.T(), d.PositionTop)
	assert.False(suite.T(), d.PositionLeft)
}

func (suite *watermarksSuite) TestResolve_BlankTextHides() {
	suite.settings.SetFolders("")
	suite.settings.SetText("   ")
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), Hide, r.Resolve("/repo/src/Foo.txt").Kind)
}

func (suite *watermarksSuite) TestResolve_NotVisible() {
	suite.settings.SetFolders("/repo/bin")
	suite.settings.SetText("always")
	r := suite.newResolver(nil)

	assert.Equal(suite.T(), Hide, r.Resolve("/repo/src/app.exe").Kind)
	assert.Equal(suite.T(), ShowText, r.Resolve("/repo/bin/app.exe").Kind)
}

func writePNG(suite *watermarksSuite, fs afero.Fs, name string, w, h int) {
	f, err := fs.Create(name)
	suite.Require().NoError(err)
	defer f.Close()

	suite.Require().NoError(png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func (suite *watermarksSuite) TestResolve_Image() {
	fs := afero.NewMemMapFs()
	writePNG(suite, fs, "/icons/lock.png", 3, 2)

	suite.settings.SetFolders("")
	suite.settings.SetText("IMG:/icons/lock.png")
	suite.settings.SetPositionLeft(true)
	r := suite.newResolver(nil, WithFs(fs))

	d := r.Resolve("/repo/src/Foo.txt")
	assert.Equal(suite.T(), ShowImage, d.Kind)
	assert.Equal(suite.T(), "/icons/lock.png", d.ImagePath)
	assert.Equal(suite.T(), &ImageInfo{Format: "png", Width: 3, Height: 2}, d.Image)
	assert.True(suite.T(), d.PositionLeft)
	assert.Empty(suite.T(), d.Text)
}

func (suite *watermarksSuite) TestResolve_MissingImage() {
	fs := afero.NewMemMapFs()
	suite.Require().NoError(fs.MkdirAll("/icons", 0o755))

	suite.settings.SetFolders("")
	suite.settings.SetShowDebugOutput(true)
	r := suite.newResolver(nil, WithFs(fs))

	for _, p := range []string{"/icons/missing.png", "/icons"} {
		suite.settings.SetText(ImagePrefix + p)
		assert.Equal(suite.T(), Hide, r.Resolve("/repo/a.cs").Kind)
	}
	assert.Equal(suite.T(), []string{
		"Unable to set image: specified image not found: '/icons/missing.png'",
		"Unable to set image: specified image not found: '/icons'",
	}, suite.sink.messages)
}

func (suite *watermarksSuite) TestProbeImage_Invalid() {
	fs := afero.NewMemMapFs()
	suite.Require().NoError(afero.WriteFile(fs, "/icons/lock.png", []byte("not an image"), 0o644))
	r := suite.newResolver(nil, WithFs(fs))

	_, err := r.probeImage("/icons/lock.png")
	assert.True(suite.T(), errors.Is(err, watermarkserrors.ErrInvalidImage))

	_, err = r.probeImage("/icons/none.png")
	assert.True(suite.T(), errors.Is(err, watermarkserrors.ErrImageNotFound))
}

func (suite *watermarksSuite) TestDecisionKindString() {
	assert.Equal(suite.T(), "hide", Hide.String())
	assert.Equal(suite.T(), "text", ShowText.String())
	assert.Equal(suite.T(), "image", ShowImage.String())
}

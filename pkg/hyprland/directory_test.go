package hyprland

import (
	"codeberg.org/miketth/kbisw/pkg/kbisw"
	"codeberg.org/miketth/kbisw/pkg/xkblayouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

const evdevXML = `<xkbConfigRegistry>
  <layoutList>
    <layout>
      <configItem><name>us</name><shortDescription>en</shortDescription><description>English (US)</description></configItem>
      <variantList>
        <variant><configItem><name>dvorak</name><description>English (Dvorak)</description></configItem></variant>
      </variantList>
    </layout>
    <layout>
      <configItem><name>fr</name><description>French</description></configItem>
    </layout>
    <layout>
      <configItem><name>de</name><description>German</description></configItem>
    </layout>
  </layoutList>
</xkbConfigRegistry>`

type fakeController struct {
	keyboards []Keyboard
	switched  []int
}

func (f *fakeController) GetKeyboards() ([]Keyboard, error) {
	return f.keyboards, nil
}

func (f *fakeController) SwitchToLayout(keyboard string, idx int) error {
	f.switched = append(f.switched, idx)
	return nil
}

func newTestDirectory(t *testing.T, keyboards ...Keyboard) (*Directory, *fakeController) {
	t.Helper()
	registry, err := xkblayouts.Parse(strings.NewReader(evdevXML))
	require.NoError(t, err)

	ctl := &fakeController{keyboards: keyboards}
	return &Directory{ctl: ctl, registry: registry}, ctl
}

var mainKeyboard = Keyboard{
	Name:         "at-translated-set-2-keyboard",
	Layouts:      []string{"us", "us", "fr"},
	Variants:     []string{"", "dvorak", ""},
	ActiveKeymap: "English (Dvorak)",
	Main:         true,
}

func TestDirectoryLayouts(t *testing.T) {
	dir, _ := newTestDirectory(t, Keyboard{Name: "other", Layouts: []string{"de"}}, mainKeyboard)

	layouts, err := dir.Layouts()
	require.NoError(t, err)
	assert.Equal(t, []kbisw.Layout{
		{ID: "us", Name: "English (US)"},
		{ID: "us(dvorak)", Name: "English (Dvorak)"},
		{ID: "fr", Name: "French"},
	}, layouts)
}

func TestDirectoryCurrent(t *testing.T) {
	dir, _ := newTestDirectory(t, mainKeyboard)

	current, err := dir.Current()
	require.NoError(t, err)
	assert.Equal(t, kbisw.Layout{ID: "us(dvorak)", Name: "English (Dvorak)"}, current)
}

func TestDirectoryCurrentOutsideConfiguredList(t *testing.T) {
	kbd := mainKeyboard
	kbd.ActiveKeymap = "German"
	dir, _ := newTestDirectory(t, kbd)

	current, err := dir.Current()
	require.NoError(t, err)
	assert.Equal(t, kbisw.Layout{ID: "de", Name: "German"}, current)

	kbd.ActiveKeymap = "Klingon"
	dir, _ = newTestDirectory(t, kbd)
	_, err = dir.Current()
	assert.ErrorIs(t, err, kbisw.ErrLayoutNotFound)
}

func TestDirectoryActivate(t *testing.T) {
	dir, ctl := newTestDirectory(t, mainKeyboard)

	require.NoError(t, dir.Activate(kbisw.Layout{ID: "fr"}))
	assert.Equal(t, []int{2}, ctl.switched)

	err := dir.Activate(kbisw.Layout{ID: "de"})
	assert.ErrorIs(t, err, kbisw.ErrLayoutNotFound)
	assert.Equal(t, []int{2}, ctl.switched)
}

func TestDirectoryNoKeyboards(t *testing.T) {
	dir, _ := newTestDirectory(t)

	_, err := dir.Current()
	assert.ErrorIs(t, err, ErrNoKeyboard)
}

func TestDirectoryShortName(t *testing.T) {
	dir, _ := newTestDirectory(t, mainKeyboard)

	assert.Equal(t, "en", dir.ShortName(kbisw.Layout{ID: "us"}))
	assert.Equal(t, "en", dir.ShortName(kbisw.Layout{ID: "us(dvorak)"}))
	assert.Empty(t, dir.ShortName(kbisw.Layout{ID: "fr"}))
}

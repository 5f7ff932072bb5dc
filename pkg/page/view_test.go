package page

import (
	"errors"
	"testing"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/valuemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// navLog records navigate hook calls by page name.
type navLog struct {
	calls []string
}

// to returns a hook that records the page being navigated to.
func (n *navLog) to(name string) Hook {
	return func(*View) error {
		n.calls = append(n.calls, name)
		return nil
	}
}

func wizardView(t *testing.T, log *navLog) *ViewType {
	t.Helper()
	vt, err := Define("Wizard", func(d *Decl) {
		d.Keyword("title", lit("title"))
		d.NavigateMethod(log.to("step 1"))
		d.ProcessPage("step 1", func(d *Decl) {
			d.Keyword("first", lit("first"))
			d.NavigateMethod(log.to("step 1 > details"))
			d.ProcessPage("details", func(d *Decl) {
				d.Keyword("detail", lit("detail"))
			})
		})
		d.NavigateMethod(log.to("step 2"))
		d.ProcessPage("step 2", func(d *Decl) {
			d.Keyword("second", lit("second"))
		})
	})
	require.NoError(t, err)
	return vt
}

func TestActivationNavigatesParentsFirst(t *testing.T) {
	log := &navLog{}
	v := wizardView(t, log).New(nil)

	_, err := v.Get("title")
	require.NoError(t, err)
	assert.Empty(t, log.calls)

	_, err = v.Get("detail")
	require.NoError(t, err)
	assert.Equal(t, []string{"step 1", "step 1 > details"}, log.calls)
	assert.Equal(t, "step 1 > details", v.Current().Name())
}

func TestActivationIsIdempotent(t *testing.T) {
	log := &navLog{}
	v := wizardView(t, log).New(nil)

	for i := 0; i < 3; i++ {
		_, err := v.Get("detail")
		require.NoError(t, err)
	}
	_, err := v.Get("first")
	require.NoError(t, err)

	assert.Equal(t, []string{"step 1", "step 1 > details"}, log.calls)
}

func TestActivatingSiblingSwitchesBranch(t *testing.T) {
	log := &navLog{}
	vt := wizardView(t, log)
	v := vt.New(nil)

	_, err := v.Get("first")
	require.NoError(t, err)
	_, err = v.Get("second")
	require.NoError(t, err)
	_, err = v.Get("first")
	require.NoError(t, err)

	assert.Equal(t, []string{"step 1", "step 2", "step 1"}, log.calls)

	step2, _ := vt.ProcessPage("step 2")
	assert.False(t, v.IsActive(step2))
	assert.True(t, v.IsActive(vt.Root()))
}

func TestActivationStateBelongsToView(t *testing.T) {
	log := &navLog{}
	vt := wizardView(t, log)

	_, err := vt.New(nil).Get("first")
	require.NoError(t, err)
	_, err = vt.New(nil).Get("first")
	require.NoError(t, err)

	assert.Equal(t, []string{"step 1", "step 1"}, log.calls)
}

func TestAlwaysActivateParent(t *testing.T) {
	log := &navLog{}
	vt := MustDefine("Search", func(d *Decl) {
		d.NavigateMethod(log.to("results"))
		d.ProcessPage("results", func(d *Decl) {
			d.NavigateMethod(log.to("row"))
			d.ProcessPage("row", func(d *Decl) {
				d.AlwaysActivateParent()
				d.Keyword("cell", lit("cell"))
			})
		})
	})

	row, err := vt.ProcessPage("results > row")
	require.NoError(t, err)
	assert.True(t, row.AlwaysActivateParent())

	v := vt.New(nil)
	for i := 0; i < 2; i++ {
		_, err := v.Get("cell")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"results", "row", "results", "row"}, log.calls)
}

func TestActivePageCheckSkipsNavigation(t *testing.T) {
	log := &navLog{}
	showing := true
	vt := MustDefine("Dashboard", func(d *Decl) {
		d.NavigateMethod(log.to("summary"))
		d.ActivePageMethod(func(*View) (bool, error) { return showing, nil })
		d.ProcessPage("summary", func(d *Decl) {
			d.Keyword("total", lit("42"))
		})
	})

	v := vt.New(nil)
	assert.Equal(t, "42", mustValue(t, v, "total"))
	assert.Empty(t, log.calls)

	showing = false
	assert.Equal(t, "42", mustValue(t, vt.New(nil), "total"))
	assert.Equal(t, []string{"summary"}, log.calls)
}

func TestNavigationErrorNamesProcessPage(t *testing.T) {
	vt := MustDefine("Broken", func(d *Decl) {
		d.NavigateMethod(func(*View) error { return errors.New("tab missing") })
		d.ProcessPage("settings", func(d *Decl) {
			d.Keyword("theme", lit("dark"))
		})
	})

	v := vt.New(nil)
	_, err := v.Get("theme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"theme"`)
	assert.Contains(t, err.Error(), `"settings"`)
	assert.Contains(t, err.Error(), "tab missing")
	assert.Same(t, vt.Root(), v.Current())
}

func TestSubmitIsNotCalledOnActivation(t *testing.T) {
	submitted := 0
	vt := MustDefine("Form", func(d *Decl) {
		d.SubmitMethod(func(*View) error {
			submitted++
			return nil
		})
		d.ProcessPage("step", func(d *Decl) {
			d.Keyword("field", lit("field"))
		})
	})

	v := vt.New(nil)
	_, err := v.Get("field")
	require.NoError(t, err)
	assert.Equal(t, 0, submitted)

	step, _ := vt.ProcessPage("step")
	require.NoError(t, step.Submit(v))
	assert.Equal(t, 1, submitted)
	assert.NoError(t, vt.Root().Submit(v))
}

func TestSetAbsentValueIsNoOp(t *testing.T) {
	log := &navLog{}
	accessed := 0
	vt := MustDefine("Untouched", func(d *Decl) {
		d.NavigateMethod(log.to("page"))
		d.ProcessPage("page", func(d *Decl) {
			d.Keyword("field", func(v *View, _ ...any) (element.Element, error) {
				accessed++
				return v.Driver().Locate(element.Text, "#field")
			})
		})
	})

	driver := element.NewMemory()
	v := vt.New(driver)
	require.NoError(t, v.Set("field", nil))

	assert.Empty(t, log.calls)
	assert.Zero(t, accessed)
	assert.Nil(t, v.Current())
	assert.Empty(t, driver.Ops)
}

func TestSetDispatchesOnKind(t *testing.T) {
	genders := valuemap.MustNew(map[string][]string{
		"M": {"male"},
		"F": {"female"},
	})
	vt := MustDefine("Signup", func(d *Decl) {
		d.Keyword("name", Locate(element.Text, "#name"))
		d.Keyword("gender", Locate(element.Radio, "input[name=gender]"), WithValueMap(genders))
		d.Keyword("terms", Locate(element.Checkbox, "#terms"))
		d.Keyword("country", Locate(element.Select, "#country"))
		d.PrivateKeyword("submit", Locate(element.Button, "#submit"))
	})

	driver := element.NewMemory()
	driver.AddSelect("#country", "Austria", "Brazil")
	v := vt.New(driver)

	require.NoError(t, v.Set("name", "Ada"))
	require.NoError(t, v.Set("gender", "female"))
	require.NoError(t, v.Set("terms", true))
	require.NoError(t, v.Set("country", "Brazil"))
	require.NoError(t, v.Set("submit", "ignored"))

	assert.Equal(t, []string{
		"fill #name=Ada",
		"choose input[name=gender]=F",
		"check #terms",
		"select #country=Brazil",
		"click #submit",
	}, driver.Ops)

	assert.Equal(t, "F", mustValue(t, v, "gender"))
	assert.Equal(t, "true", mustValue(t, v, "terms"))
}

func TestSetCheckboxValues(t *testing.T) {
	vt := MustDefine("Prefs", func(d *Decl) {
		d.Keyword("news", Locate(element.Checkbox, "#news"))
	})

	tests := []struct {
		value any
		want  string
	}{
		{true, "true"},
		{false, "false"},
		{"yes", "true"},
		{"no", "false"},
		{"off", "false"},
		{1, "true"},
		{0, "false"},
		{EmptyValue, "false"},
	}

	for _, tt := range tests {
		driver := element.NewMemory()
		v := vt.New(driver)
		if tt.want == "false" {
			require.NoError(t, v.Set("news", true))
		}
		require.NoError(t, v.Set("news", tt.value))
		assert.Equal(t, tt.want, mustValue(t, v, "news"), "value %v", tt.value)
	}
}

func TestSetEmptyMarkerClearsText(t *testing.T) {
	vt := MustDefine("Profile", func(d *Decl) {
		d.Keyword("bio", Locate(element.Text, "#bio"))
	})
	driver := element.NewMemory()
	v := vt.New(driver)

	require.NoError(t, v.Set("bio", "hello"))
	require.NoError(t, v.Set("bio", EmptyValue))

	assert.Equal(t, "", mustValue(t, v, "bio"))
	assert.Equal(t, []string{"fill #bio=hello", "clear #bio"}, driver.Ops)
}

func TestSetNonStringValueOnText(t *testing.T) {
	vt := MustDefine("Order", func(d *Decl) {
		d.Keyword("quantity", Locate(element.Text, "#qty"))
	})
	v := vt.New(element.NewMemory())

	require.NoError(t, v.Set("quantity", 3))
	assert.Equal(t, "3", mustValue(t, v, "quantity"))
}

func TestSetValueMapMiss(t *testing.T) {
	genders := valuemap.MustNew(map[string][]string{"M": {"male"}})
	vt := MustDefine("Signup", func(d *Decl) {
		d.Keyword("gender", Locate(element.Radio, "input[name=gender]"), WithValueMap(genders))
	})

	err := vt.New(element.NewMemory()).Set("gender", "robot")
	require.Error(t, err)

	var lookupErr *valuemap.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Contains(t, err.Error(), `keyword "gender"`)
}

// fakeRadio claims the radio kind without implementing it.
type fakeRadio struct{}

func (fakeRadio) Kind() element.Kind { return element.Radio }

func TestSetCapabilityMismatch(t *testing.T) {
	vt := MustDefine("Liar", func(d *Decl) {
		d.Keyword("choice", func(*View, ...any) (element.Element, error) {
			return fakeRadio{}, nil
		})
	})

	err := vt.New(nil).Set("choice", "x")

	var capErr *element.CapabilityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, element.Radio, capErr.Kind)
}

func TestGetTagsHandle(t *testing.T) {
	genders := valuemap.MustNew(map[string][]string{"M": {"male"}})
	var gotArgs []any
	vt := MustDefine("Tagged", func(d *Decl) {
		d.Keyword("row", func(v *View, args ...any) (element.Element, error) {
			gotArgs = args
			return literal("row"), nil
		}, WithValueMap(genders))
	})

	h, err := vt.New(nil).Get("row", 2, "name")
	require.NoError(t, err)
	assert.Equal(t, "row", h.Keyword)
	assert.Same(t, genders, h.Map)
	assert.Equal(t, element.Text, h.Kind())
	assert.Equal(t, []any{2, "name"}, gotArgs)
}

func TestUnknownKeyword(t *testing.T) {
	vt := MustDefine("Empty", nil)
	v := vt.New(nil)

	_, err := v.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, v.Set("nope", "x"), ErrNotFound)
}

func TestLocateWithoutDriver(t *testing.T) {
	vt := MustDefine("Detached", func(d *Decl) {
		d.Keyword("name", Locate(element.Text, "#name"))
	})

	_, err := vt.New(nil).Get("name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no driver bound to view Detached")
}

func TestKeywordAlias(t *testing.T) {
	vt := MustDefine("Aliased", func(d *Decl) {
		d.ProcessPage("contact", func(d *Decl) {
			d.Keyword("email", Locate(element.Text, "#email"))
		})
		d.KeywordAlias("mail", "email")
		d.KeywordAlias("phone", "telephone")
	})

	driver := element.NewMemory()
	v := vt.New(driver)

	require.NoError(t, v.Set("mail", "ada@example.test"))
	assert.Equal(t, "ada@example.test", mustValue(t, v, "email"))

	h, err := v.Get("mail")
	require.NoError(t, err)
	assert.Equal(t, "mail", h.Keyword)
	assert.Equal(t, "contact", v.Current().Name())

	assert.Contains(t, vt.Root().Keywords(), "phone")
	_, err = v.Get("phone")
	require.Error(t, err)

	var aliasErr *AliasError
	require.True(t, errors.As(err, &aliasErr))
	assert.Equal(t, "telephone", aliasErr.Target)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeywordAliasResolvesInSubtype(t *testing.T) {
	base := MustDefine("AliasBase", func(d *Decl) {
		d.KeywordAlias("label", "caption")
	})
	sub := base.MustSubtype("AliasSub", func(d *Decl) {
		d.Keyword("caption", lit("sub caption"))
	})

	assert.Equal(t, "sub caption", mustValue(t, sub.New(nil), "label"))

	_, err := base.New(nil).Get("label")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeywordAliasCycles(t *testing.T) {
	_, err := Define("SelfAlias", func(d *Decl) {
		d.KeywordAlias("x", "x")
	})
	assert.ErrorIs(t, err, ErrAliasCycle)

	vt := MustDefine("LoopAlias", func(d *Decl) {
		d.KeywordAlias("a", "b")
		d.KeywordAlias("b", "a")
		d.KeywordAlias("c", "a")
	})
	v := vt.New(nil)

	_, err = v.Get("a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAliasCycle)
	var aliasErr *AliasError
	require.True(t, errors.As(err, &aliasErr))

	_, err = v.Get("c")
	assert.ErrorIs(t, err, ErrAliasCycle)

	// a failed lookup leaves nothing behind
	assert.Empty(t, v.resolving)
}

func TestCompare(t *testing.T) {
	genders := valuemap.MustNew(map[string][]string{"M": {"male"}})
	vt := MustDefine("Compared", func(d *Decl) {
		d.Keyword("name", Locate(element.Text, "#name"))
		d.Keyword("gender", Locate(element.Radio, "#gender"), WithValueMap(genders))
		d.Keyword("terms", Locate(element.Checkbox, "#terms"))
		d.PrivateKeyword("save", Locate(element.Button, "#save"))
	})
	v := vt.New(element.NewMemory())
	require.NoError(t, v.Set("name", "Ada"))
	require.NoError(t, v.Set("gender", "male"))
	require.NoError(t, v.Set("terms", "yes"))

	tests := []struct {
		keyword string
		value   any
		want    bool
	}{
		{"name", "Ada", true},
		{"name", "Grace", false},
		{"name", nil, true},
		{"gender", "male", true},
		{"gender", "M", true},
		{"terms", true, true},
		{"terms", "no", false},
		{"save", "anything", true},
	}
	for _, tt := range tests {
		_, ok, err := v.Compare(tt.keyword, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s=%v", tt.keyword, tt.value)
	}

	actual, ok, err := v.Compare("name", "Grace")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Ada", actual)
}

// Package page provides page objects for UI automation: view types built from
// named keywords grouped into a tree of process pages.
//
// # Concepts
//
// A ViewType is the registry of one page-object definition. It is built once
// by a declaration function and is read-only afterwards:
//
//  1. Keyword: a named accessor for one field or control. The accessor returns
//     an element.Element from the element.Driver bound to a View.
//  2. ProcessPage: a logical section of the view that may need navigation
//     (a tab, a wizard step, a collapsed panel) before its keywords can be used.
//  3. Permission: populate/verify flags deciding whether a keyword takes part in
//     data population and verification passes.
//
// Every ViewType has a root process page named after the type. Keywords
// declared outside any ProcessPage block belong to the root.
//
// # Declaring a view
//
//	var SignupView = page.MustDefine("SignupView", func(d *page.Decl) {
//	    d.Keyword("email", page.Locate(element.Text, "#email"))
//	    d.NavigateMethod(func(v *page.View) error {
//	        return v.Driver().Goto("https://example.test/profile")
//	    })
//	    d.ProcessPage("Profile", func(d *page.Decl) {
//	        d.ProcessPageAlias("profile")
//	        d.PopulateKeyword("gender", page.Locate(element.Radio, "input[name=gender]"),
//	            page.WithValueMap(genders))
//	    })
//	    d.PrivateKeyword("submit", page.Locate(element.Button, "#submit"))
//	})
//
// Nested process pages are identified by the names of their non-root
// ancestors joined with " > ", so the page opened as "Step 2" inside "Wizard"
// is found with SignupView.ProcessPage("Wizard > Step 2"). Opening a page
// whose identity already exists reopens it instead of creating a duplicate.
//
// # Subtypes
//
// Subtype snapshots the keyword tables and the process-page tree of its parent
// and adds a fresh root page. Later declarations on either type never show up
// on the other.
//
// # Using a view
//
// A View is one instance of a ViewType bound to a driver. Get and Set look a
// keyword up in the registry, activate its process page (navigating through
// parent pages as needed) and then touch the element. Activation state belongs
// to the View, so two views of the same type navigate independently.
package page

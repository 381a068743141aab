package org_test

import (
	"fmt"

	"github.com/matzehuels/orgchart/pkg/org"
)

func ExampleBuild() {
	h, err := org.Build([]org.UnitRecord{
		{ID: 1, Name: "HQ", Abbrev: "HQ", UnitType: "Command"},
		{ID: 2, Name: "1st Corps", Abbrev: "1C", UnitType: "Corps", ParentID: org.ParentOf(1)},
		{ID: 3, Name: "Lost Brigade", UnitType: "Brigade", ParentID: org.ParentOf(42)},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, root := range h.Roots() {
		fmt.Println(root.Name, root.Children)
	}
	fmt.Println("demoted:", h.Demoted())
	// Output:
	// HQ [2]
	// Lost Brigade []
	// demoted: [3]
}

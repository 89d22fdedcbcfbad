package section

import "fmt"

func TemplatePath(templateID int64) string {
	return fmt.Sprintf("/template/%d", templateID)
}

func EditPath(templateID, sectionID int64) string {
	return fmt.Sprintf("/template/%d/section/%d", templateID, sectionID)
}

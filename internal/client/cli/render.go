package cli

import (
	"github.com/dmitrijs2005/microblog/internal/rpc"
)

const separator = "-------------------------"

// timeLayout renders post times like "Tue Mar 03 10:04:05 CET 2026".
const timeLayout = "Mon Jan 02 15:04:05 MST 2006"

func printPosts(posts []*rpc.Post) {
	for _, p := range posts {
		printlnFn("Username: " + p.UserName)
		printlnFn("Body: " + p.Body)
		if p.Time != nil {
			printlnFn("Time: " + p.Time.AsTime().Local().Format(timeLayout))
		} else {
			printlnFn("Time: ")
		}
		printlnFn(separator)
	}
}

func printUsers(users []*rpc.User) {
	for _, u := range users {
		printlnFn(u.Name)
	}
}

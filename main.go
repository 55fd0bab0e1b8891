// Command userform serves the user data form and validates form values from
// the command line.
package main

func main() {
	Execute()
}

// Command dsctl exercises the dskit allocators, ownership wrappers and
// filesystem wrapper from the command line.
package main

func main() {
	execute()
}

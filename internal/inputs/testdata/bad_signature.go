package main

func Inputs(name string) any { return name }

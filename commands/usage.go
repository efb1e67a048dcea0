package commands

const usageDescription = `Tart bundles files into a single .tar.gz archive, extracts .tar.gz
   archives, or appends a file to an existing .tar.gz archive.`

const usageTemplate = `NAME:
   {{.Name}} - {{.Usage}}

SYNOPSIS:
   {{.Name}} (-c|-d|-a) -i <INPUT>... -o <OUTPUT> [OPTIONS]
   {{.Name}} -h

DESCRIPTION:
   {{.Description}}

OPTIONS:
   {{range $index, $option := .VisibleFlags}}{{if $index}}
   {{end}}{{$option}}{{end}}

EXAMPLES:
   Compress files into an archive:
      {{.Name}} -c -i file1.txt file2.txt -o archive.tar.gz

   Decompress an archive:
      {{.Name}} -d -i archive.tar.gz -o extracted_dir/

   Add a file to an existing archive:
      {{.Name}} -a -i newfile.txt -o archive.tar.gz
`
